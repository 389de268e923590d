// Package inference forwards triage context to disease detection and derives
// the home-care and medication views from the ranked result.
package inference

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/remote"
)

type Detector interface {
	DetectDisease(ctx context.Context, req remote.DiseaseRequest) (*models.DiseaseDetection, error)
}

// Result is one detection. Causes keep the server's ranking; HomeCare comes
// from Causes[0] only.
type Result struct {
	Causes                []models.ProbableCause
	HomeCare              []string
	MedicationSuggestions map[string]any
	Generation            uint64
	// Stale is set when a newer Detect already succeeded before this one
	// returned. A newer request that failed does not supersede it.
	Stale bool
}

type Bridge struct {
	detector   Detector
	logger     *zap.Logger
	generation atomic.Uint64
	// succeeded is the highest generation that returned without error.
	succeeded  atomic.Uint64
}

func NewBridge(detector Detector, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{detector: detector, logger: logger}
}

// Latest is the generation of the most recent request that reached the network.
func (b *Bridge) Latest() uint64 {
	return b.generation.Load()
}

// Detect returns an empty result without any network call when symptoms is
// empty. temperatureCategory may be "".
func (b *Bridge) Detect(ctx context.Context, symptoms []string, temperatureCategory string, durationDays *int) (Result, error) {
	if len(symptoms) == 0 {
		return Result{}, nil
	}

	gen := b.generation.Add(1)
	req := remote.DiseaseRequest{
		Symptoms:          append([]string(nil), symptoms...),
		DurationDays:      durationDays,
		AdditionalContext: map[string]any{},
	}
	if temperatureCategory != "" {
		req.TemperatureCategory = &temperatureCategory
	}

	resp, err := b.detector.DetectDisease(ctx, req)
	if err != nil {
		b.logger.Warn("disease detection failed", zap.Uint64("generation", gen), zap.Strings("symptoms", symptoms), zap.Error(err))
		return Result{Generation: gen}, err
	}

	res := Result{
		Causes:                resp.ProbableCauses,
		MedicationSuggestions: resp.MedicationSuggestions,
		Generation:            gen,
		Stale:                 !b.markSucceeded(gen),
	}
	if len(res.Causes) > 0 {
		res.HomeCare = res.Causes[0].HomeCare
	}
	if res.Stale {
		b.logger.Debug("discarding superseded disease detection", zap.Uint64("generation", gen), zap.Uint64("succeeded", b.succeeded.Load()))
	}
	return res, nil
}

// markSucceeded raises the success watermark to gen. It reports false when a
// newer generation has already succeeded.
func (b *Bridge) markSucceeded(gen uint64) bool {
	for {
		cur := b.succeeded.Load()
		if gen < cur {
			return false
		}
		if b.succeeded.CompareAndSwap(cur, gen) {
			return true
		}
	}
}
