package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/localstore"
)

const geocodeCachePrefix = "geocode:"

// Geocoder resolves a free-text city or postal code through Nominatim.
type Geocoder struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	cache      localstore.Backend
	logger     *zap.Logger
}

// NewGeocoder builds a Nominatim client. cache may be nil.
func NewGeocoder(baseURL, userAgent string, httpClient *http.Client, cache localstore.Backend, logger *zap.Logger) *Geocoder {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Geocoder{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		cache:      cache,
		logger:     logger,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// ManualQuery is the free text typed by the user. Pincode wins over City.
type ManualQuery struct {
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

func (q ManualQuery) Text() string {
	if p := strings.TrimSpace(q.Pincode); p != "" {
		return p
	}
	return strings.TrimSpace(q.City)
}

// Geocode returns the first match with Method manual.
func (g *Geocoder) Geocode(ctx context.Context, q ManualQuery) (models.Coordinates, error) {
	text := q.Text()
	if text == "" {
		return models.Coordinates{}, ErrEmptyLocationQuery
	}

	lat, lon, err := g.lookup(ctx, text)
	if err != nil {
		return models.Coordinates{}, err
	}
	return models.Coordinates{
		Lat:     lat,
		Lon:     lon,
		Method:  models.MethodManual,
		City:    strings.TrimSpace(q.City),
		Pincode: strings.TrimSpace(q.Pincode),
	}, nil
}

func (g *Geocoder) lookup(ctx context.Context, text string) (float64, float64, error) {
	cacheKey := geocodeCachePrefix + strings.ToLower(text)
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil {
			if lat, lon, ok := parseCached(cached); ok {
				return lat, lon, nil
			}
		}
	}

	endpoint := g.baseURL + "/search?" + url.Values{"format": {"json"}, "q": {text}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrGeocoderUnavailable, err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("geocode request failed", zap.String("query", text), zap.Error(err))
		return 0, 0, fmt.Errorf("%w: %v", ErrGeocoderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: status %d", ErrGeocoderUnavailable, resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return 0, 0, fmt.Errorf("%w: decode: %v", ErrGeocoderUnavailable, err)
	}
	if len(places) == 0 {
		return 0, 0, ErrLocationNotFound
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if err := errors.Join(errLat, errLon); err != nil || !validLatLon(lat, lon) {
		return 0, 0, fmt.Errorf("%w: bad coordinates in first match", ErrGeocoderUnavailable)
	}

	if g.cache != nil {
		value := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
		if err := g.cache.Set(ctx, cacheKey, value); err != nil {
			g.logger.Debug("failed to cache geocode result", zap.String("query", text), zap.Error(err))
		}
	}
	return lat, lon, nil
}

func parseCached(v string) (float64, float64, bool) {
	latStr, lonStr, ok := strings.Cut(v, ",")
	if !ok {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lon, err2 := strconv.ParseFloat(lonStr, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
