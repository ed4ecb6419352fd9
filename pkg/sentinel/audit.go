package sentinel

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Flat deductions per failing check.
const (
	lintPenalty        = 10
	missingFilePenalty = 5
)

// envTemplate is the hard-coded restoration template for .env.example.
const envTemplate = "# Sentinel Restored Environment Template\n" +
	"GEMINI_API_KEY=YOUR_KEY\n" +
	"ELITEANI_SESSION_SECRET=YOUR_SECRET\n"

// AuditResult is the outcome of one health audit pass.
type AuditResult struct {
	HealthScore  int
	LintPassed   bool
	MissingFiles []string
	Report       string
}

// performHealthAudit runs the lint command and the critical-file checks,
// self-heals what it can, and writes the markdown report. The score
// starts at 100 and takes a flat deduction per failing check; a healed
// file does not restore its deduction within the same pass.
func (s *Sentinel) performHealthAudit(ctx context.Context) AuditResult {
	s.logger.Info("starting health audit", "root", s.cfg.RootDir)

	result := AuditResult{HealthScore: 100, LintPassed: true}
	var report strings.Builder
	fmt.Fprintf(&report, "# Sentinel Health Report - %s\n\n", time.Now().Format(time.RFC3339))

	if err := s.runLint(ctx); err != nil {
		s.logger.Warn("lint audit failed", "error", err)
		result.LintPassed = false
		result.HealthScore -= lintPenalty
		report.WriteString("## 1. Code Quality\n❌ FAILED\n")
	} else {
		report.WriteString("## 1. Code Quality\n✅ PASSED\n")
	}

	report.WriteString("\n## 2. Critical Files Audit\n")
	for _, file := range s.cfg.CriticalFiles {
		_, err := os.Stat(filepath.Join(s.cfg.RootDir, file))
		exists := err == nil
		if exists {
			fmt.Fprintf(&report, "- %s: ✅ FOUND\n", file)
		} else {
			fmt.Fprintf(&report, "- %s: ❌ MISSING\n", file)
			result.HealthScore -= missingFilePenalty
			result.MissingFiles = append(result.MissingFiles, file)
		}
	}

	if len(result.MissingFiles) > 0 {
		s.selfHeal(result.MissingFiles)
	}

	result.Report = report.String()
	if err := s.writeReport(result.Report); err != nil {
		s.logger.Warn("failed to write health report", "error", err)
	}

	s.logger.Info("health audit complete", "healthScore", result.HealthScore)
	return result
}

// runLint executes the configured lint command in the project root.
func (s *Sentinel) runLint(ctx context.Context) error {
	if s.cfg.LintCommand == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", s.cfg.LintCommand)
	cmd.Dir = s.cfg.RootDir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w (%s)", s.cfg.LintCommand, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// selfHeal writes known restoration templates for missing files. Only
// .env.example has a template; anything else is reported and left
// missing.
func (s *Sentinel) selfHeal(missingFiles []string) {
	s.logger.Info("initiating self-heal", "count", len(missingFiles))
	for _, file := range missingFiles {
		if file != ".env.example" {
			s.logger.Warn("no restoration template", "file", file)
			continue
		}
		path := filepath.Join(s.cfg.RootDir, file)
		if err := os.WriteFile(path, []byte(envTemplate), 0o644); err != nil {
			s.logger.Warn("self-heal failed", "file", file, "error", err)
			continue
		}
		s.logger.Info("restored file", "file", file)
	}
}

// writeReport persists the markdown report, creating the report
// directory when needed.
func (s *Sentinel) writeReport(report string) error {
	path := filepath.Join(s.cfg.RootDir, s.cfg.ReportPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
