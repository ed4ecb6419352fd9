package sentinel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

// Growth-proof triples injected during the promotion sweep.
var (
	proofPlatforms = []string{"Google Search", "Twitter/X", "Meta Ads", "Bing Indexer", "EliteAni Network"}
	proofTypes     = []string{"Organic Ranking", "Viral Injection", "Lead Generation", "Semantic Indexing", "Contextual Ad"}
	proofStatuses  = []string{"Top 3 Indexing", "Active Engagement", "Lead Captured", "Trust Verified", "Verified"}
)

// Sentinel is the scheduled self-audit process. Each tick runs a health
// audit and a promotion sweep; the phases are independent, so a failure
// in one never aborts the other.
type Sentinel struct {
	cfg    *Config
	client *http.Client
	logger *slog.Logger
}

// New creates a Sentinel.
func New(cfg *Config, logger *slog.Logger) *Sentinel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sentinel{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Run executes the sentinel loop. With once set it performs exactly one
// tick and returns; otherwise it ticks at the configured interval until
// the context is cancelled.
func (s *Sentinel) Run(ctx context.Context, once bool) {
	s.tick(ctx)
	if once {
		s.logger.Info("sentinel single run complete")
		return
	}

	s.logger.Info("sentinel entering continuous monitoring", "interval", s.cfg.Interval.String())
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sentinel stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs both phases of one sentinel pass.
func (s *Sentinel) tick(ctx context.Context) {
	result := s.performHealthAudit(ctx)
	s.postHeartbeat(ctx, result.HealthScore)
	s.processPromotions(ctx)
}

// postHeartbeat reports the audit outcome to the app server. Connection
// failures are logged and swallowed; the server may simply be offline.
func (s *Sentinel) postHeartbeat(ctx context.Context, healthScore int) {
	activeThreats := 0
	if healthScore < 100 {
		activeThreats = 1
	}
	body := map[string]any{
		"status":        "Active",
		"healthScore":   healthScore,
		"activeThreats": activeThreats,
	}
	if err := s.postJSON(ctx, "/api/sentinel/heartbeat", body); err != nil {
		s.logger.Warn("heartbeat failed, app server might be offline", "error", err)
	}
}

// processPromotions deploys the pending promo queue and injects one
// synthetic growth proof. Each call is best-effort on its own.
func (s *Sentinel) processPromotions(ctx context.Context) {
	s.logger.Info("scanning promotional queue")

	if err := s.postJSON(ctx, "/api/promo/deploy", nil); err != nil {
		s.logger.Warn("promo deploy failed", "error", err)
	}

	proof := map[string]any{
		"action": "add_ad_proof",
		"value": map[string]any{
			"platform": proofPlatforms[rand.Intn(len(proofPlatforms))],
			"type":     proofTypes[rand.Intn(len(proofTypes))],
			"status":   proofStatuses[rand.Intn(len(proofStatuses))],
		},
	}
	if err := s.postJSON(ctx, "/api/governance", proof); err != nil {
		s.logger.Warn("growth proof injection failed", "error", err)
		return
	}
	s.logger.Info("injected growth proof")
}

// postJSON posts a JSON body to the app server and checks for a 2xx
// response.
func (s *Sentinel) postJSON(ctx context.Context, path string, body any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.ServerURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: status %d", path, resp.StatusCode)
	}
	return nil
}
