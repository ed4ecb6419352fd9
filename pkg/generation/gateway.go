package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mythicam/eliteanicore/pkg/governance"
)

// ErrNotConfigured is returned when no primary provider is available.
var ErrNotConfigured = errors.New("image provider not configured")

// ErrEmptyPrompt is returned for a missing prompt; no network call is
// attempted.
var ErrEmptyPrompt = errors.New("prompt is required")

// Gateway runs the two-attempt generation flow: a primary provider call,
// then a deterministic keyless fallback URL when the primary fails. The
// prompt is parsed once at the boundary and the same immutable value
// feeds both attempts.
type Gateway struct {
	primary  ImageProvider
	fallback *FallbackBuilder
	store    *Store
	govStore *governance.Store
	meter    UsageReporter
	logger   *slog.Logger
}

// NewGateway creates a Gateway. primary may be nil (not configured);
// meter may be nil (metering disabled).
func NewGateway(primary ImageProvider, fallback *FallbackBuilder, store *Store, govStore *governance.Store, meter UsageReporter, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		primary:  primary,
		fallback: fallback,
		store:    store,
		govStore: govStore,
		meter:    meter,
		logger:   logger,
	}
}

// Generate runs the state machine for one prompt and returns the
// persisted record. The caller's prompt is never dropped: a fallback URL
// embeds it percent-encoded. A terminal failure carries the primary
// attempt's error.
func (g *Gateway) Generate(ctx context.Context, prompt, customerID string) (*Record, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	if g.primary == nil {
		return nil, ErrNotConfigured
	}

	imageURL, primaryErr := g.primary.Generate(ctx, prompt)
	provenance := ProvenancePrimary

	if primaryErr != nil {
		g.logger.Warn("primary image provider failed, taking fallback path",
			"error", primaryErr)
		fallbackURL, err := g.fallback.Build(prompt)
		if err != nil {
			// Terminal: report the original primary failure.
			return nil, fmt.Errorf("image generation failed: %w", primaryErr)
		}
		imageURL = fallbackURL
		provenance = ProvenanceFallback
	}

	record := &Record{
		ID:         uuid.New().String(),
		Prompt:     prompt,
		ImageURL:   imageURL,
		Provider:   provenance,
		CustomerID: customerID,
	}
	if err := g.store.Create(record); err != nil {
		return nil, err
	}

	g.sideEffects(record)
	return record, nil
}

// sideEffects runs the best-effort side calls for a successful attempt:
// one governance activity log entry and, when a customer is known, one
// metered usage event. Neither outcome reaches the caller.
func (g *Gateway) sideEffects(record *Record) {
	logPrompt := record.Prompt
	if runes := []rune(logPrompt); len(runes) > 50 {
		logPrompt = string(runes[:50])
	}
	if err := g.govStore.AppendLog("generated_image", map[string]any{
		"prompt":   logPrompt,
		"imageUrl": record.ImageURL,
		"provider": string(record.Provider),
	}); err != nil {
		g.logger.Warn("failed to log generation", "error", err)
	}

	if g.meter == nil || record.CustomerID == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := g.meter.ReportUsage(ctx, record.CustomerID, record.Prompt); err != nil {
			g.logger.Warn("usage metering failed",
				"customerId", record.CustomerID, "error", err)
		}
	}()
}
