// Package discovery acquires the user's location and resolves nearby care
// providers, preferring the triage-aware smart lookup.
package discovery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/localstore"
	"healthguide/services/remote"
)

const (
	smartRadiusKm = 10
	basicRadiusKm = 5
	basicLimit    = 10
)

type ProviderAPI interface {
	SmartFind(ctx context.Context, req remote.SmartFindRequest) (*remote.SmartFindResponse, error)
	Nearby(ctx context.Context, req remote.NearbyRequest) ([]models.Provider, error)
}

type Finder struct {
	api    ProviderAPI
	store  *localstore.Store
	logger *zap.Logger
}

func NewFinder(api ProviderAPI, store *localstore.Store, logger *zap.Logger) *Finder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{api: api, store: store, logger: logger}
}

// FindProviders tries the smart lookup with the persisted session id, triage
// level and symptoms, then falls back to the basic lookup. A smart failure
// only surfaces if the fallback fails too.
func (f *Finder) FindProviders(ctx context.Context, coords models.Coordinates, providerType models.ProviderType) (models.DiscoveryResult, error) {
	if providerType == "" || providerType == models.ProviderAll {
		providerType = models.ProviderHospital
	}

	res, err := f.Smart(ctx, coords, providerType)
	if err == nil {
		return res, nil
	}
	f.logger.Warn("smart provider lookup failed, falling back to basic",
		zap.Float64("lat", coords.Lat), zap.Float64("lon", coords.Lon), zap.Error(err))

	providers, err := f.api.Nearby(ctx, remote.NearbyRequest{
		Latitude:     coords.Lat,
		Longitude:    coords.Lon,
		RadiusKm:     basicRadiusKm,
		ProviderType: providerType,
		Limit:        basicLimit,
	})
	if err != nil {
		f.logger.Error("basic provider lookup failed", zap.Error(err))
		return models.DiscoveryResult{}, fmt.Errorf("%w: %v", ErrNoProviders, err)
	}
	return models.DiscoveryResult{Providers: withDistances(coords, providers)}, nil
}

// Smart runs only the triage-aware lookup.
func (f *Finder) Smart(ctx context.Context, coords models.Coordinates, providerType models.ProviderType) (models.DiscoveryResult, error) {
	if providerType == "" || providerType == models.ProviderAll {
		providerType = models.ProviderHospital
	}
	resp, err := f.api.SmartFind(ctx, remote.SmartFindRequest{
		Latitude:     coords.Lat,
		Longitude:    coords.Lon,
		RadiusKm:     smartRadiusKm,
		ProviderType: providerType,
		SessionID:    f.store.SessionID(ctx),
		TriageLevel:  f.store.TriageLevel(ctx),
		Symptoms:     f.store.Symptoms(ctx),
	})
	if err != nil {
		return models.DiscoveryResult{}, err
	}
	return models.DiscoveryResult{
		Providers:        withDistances(coords, resp.Providers),
		Assessment:       resp.Assessment,
		EmergencyNumbers: resp.EmergencyNumbers,
		Narrative:        resp.SmartResponse,
		Smart:            true,
	}, nil
}

// withDistances fills a missing distance from the user's position. Order is kept.
func withDistances(from models.Coordinates, providers []models.Provider) []models.Provider {
	if providers == nil {
		return []models.Provider{}
	}
	for i := range providers {
		p := &providers[i]
		if p.DistanceKm == 0 && p.HasCoordinates() {
			p.DistanceKm = haversine(from.Lat, from.Lon, p.Latitude, p.Longitude)
		}
	}
	return providers
}
