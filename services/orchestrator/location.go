package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/discovery"
)

// ReportGPS accepts a browser fix. A quick action waiting for a position
// consumes it; otherwise it becomes the user's location and providers are
// looked up.
func (o *Orchestrator) ReportGPS(ctx context.Context, fix discovery.Fix) error {
	if o.mailbox.Deliver(fix) {
		return nil
	}
	coords, err := discovery.Acquire(ctx, fix, o.cfg.GPSTimeout)
	if err != nil {
		o.setLocationError(err)
		return err
	}
	return o.useLocation(ctx, coords)
}

// ManualLocation geocodes a city or pincode typed by the user.
func (o *Orchestrator) ManualLocation(ctx context.Context, q discovery.ManualQuery) error {
	var coords models.Coordinates
	var err error
	switch {
	case q.Text() == "":
		err = discovery.ErrEmptyLocationQuery
	case o.geocoder == nil:
		err = discovery.ErrGeocoderUnavailable
	default:
		coords, err = o.geocoder.Geocode(ctx, q)
	}
	if err != nil {
		o.setLocationError(err)
		return err
	}
	return o.useLocation(ctx, coords)
}

func (o *Orchestrator) useLocation(ctx context.Context, coords models.Coordinates) error {
	o.mu.Lock()
	o.coords = &coords
	o.locationError = ""
	o.mu.Unlock()

	res, err := o.finder.FindProviders(ctx, coords, models.ProviderHospital)
	if err != nil {
		o.logger.Warn("provider discovery failed", zap.Error(err))
		o.setLocationError(err)
		return err
	}
	o.setProviders(coords, res)
	return nil
}

func (o *Orchestrator) setLocationError(err error) {
	o.mu.Lock()
	o.locationError = discovery.UserMessage(err)
	o.mu.Unlock()
}

func (o *Orchestrator) setProviders(coords models.Coordinates, res models.DiscoveryResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.coords = &coords
	o.providers = res.Providers
	if res.Smart {
		r := res
		o.smart = &r
	} else {
		o.smart = nil
	}
}

// CloseProviders hides the provider view. The user's location is kept.
func (o *Orchestrator) CloseProviders() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mapOpen = false
	o.smart = nil
	o.providers = nil
	o.ambulancePrompt = nil
}
