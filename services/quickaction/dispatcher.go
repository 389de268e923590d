// Package quickaction maps the fixed quick intents onto the triage
// subsystems.
package quickaction

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/discovery"
)

type Intent string

const (
	IntentFever      Intent = "fever"
	IntentEmergency  Intent = "emergency"
	IntentFindDoctor Intent = "find-doctor"
)

const (
	FeverPrefill    = "I have a fever. Can you help me assess my symptoms?"
	EmergencyPrompt = "User reports a medical emergency. Provide immediate steps and safety guidance."

	emergencyPrefix   = "🚨 Emergency Advice:\n"
	emergencyFallback = "Please seek immediate help!"

	noticeLocating     = "📍 Getting your location and assessing your situation... please allow permission."
	noticeLocated      = "✅ Location found. Analyzing your situation..."
	noticeFetchFailed  = "❌ Failed to fetch providers. Please try again."
	noticeUnsupported  = "⚠️ Geolocation not supported."
	noticeDenied       = "❌ Permission denied. Please allow location access."
	noticeUnavailable  = "⚠️ Location unavailable."
	noticeTimedOut     = "⌛ Request timed out."
	noticeLocateFailed = "❌ Could not fetch location."
)

var ErrUnknownIntent = errors.New("unknown quick action")

func Known(intent Intent) bool {
	switch intent {
	case IntentFever, IntentEmergency, IntentFindDoctor:
		return true
	}
	return false
}

type AdviceAPI interface {
	Chat(ctx context.Context, message string) (string, error)
}

type ProviderFinder interface {
	FindProviders(ctx context.Context, coords models.Coordinates, providerType models.ProviderType) (models.DiscoveryResult, error)
}

// Sink receives the side effects of a quick action as they happen.
type Sink interface {
	Prefill(text string)
	Notice(text string)
	OpenMap(coords models.Coordinates)
	Providers(coords models.Coordinates, res models.DiscoveryResult)
	AmbulancePrompt(p models.AmbulancePrompt)
}

type Config struct {
	GPSTimeout           time.Duration
	AmbulancePromptDelay time.Duration
}

type Dispatcher struct {
	advice AdviceAPI
	finder ProviderFinder
	cfg    Config
	logger *zap.Logger
	// goFn runs the delayed ambulance prompt.
	goFn Runner
}

// Runner runs deferred work. The context it passes ends when the owner shuts
// down, which abandons any pending prompt.
type Runner func(fn func(ctx context.Context))

// NewDispatcher builds a dispatcher. nil goFn runs deferred work on a plain
// goroutine that is never cancelled.
func NewDispatcher(advice AdviceAPI, finder ProviderFinder, cfg Config, goFn Runner, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if goFn == nil {
		goFn = func(f func(context.Context)) { go f(context.Background()) }
	}
	if cfg.GPSTimeout <= 0 {
		cfg.GPSTimeout = 15 * time.Second
	}
	return &Dispatcher{advice: advice, finder: finder, cfg: cfg, goFn: goFn, logger: logger}
}

// Dispatch runs intent. src is only consulted for find-doctor.
func (d *Dispatcher) Dispatch(ctx context.Context, intent Intent, src discovery.PositionSource, sink Sink) error {
	switch intent {
	case IntentFever:
		sink.Prefill(FeverPrefill)
		return nil
	case IntentEmergency:
		sink.Notice(d.EmergencyAdvice(ctx))
		return nil
	case IntentFindDoctor:
		d.findDoctor(ctx, src, sink)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
}

// EmergencyAdvice asks the plain advice endpoint. It carries no session state.
func (d *Dispatcher) EmergencyAdvice(ctx context.Context) string {
	reply, err := d.advice.Chat(ctx, EmergencyPrompt)
	if err != nil {
		d.logger.Warn("emergency advice request failed", zap.Error(err))
	}
	if strings.TrimSpace(reply) == "" {
		reply = emergencyFallback
	}
	return emergencyPrefix + reply
}

func (d *Dispatcher) findDoctor(ctx context.Context, src discovery.PositionSource, sink Sink) {
	if src == nil {
		sink.Notice(noticeUnsupported)
		return
	}
	sink.Notice(noticeLocating)

	coords, err := discovery.Acquire(ctx, src, d.cfg.GPSTimeout)
	if err != nil {
		d.logger.Info("find-doctor geolocation failed", zap.Error(err))
		sink.Notice(GeolocationNotice(err))
		return
	}
	sink.Notice(noticeLocated)
	sink.OpenMap(coords)

	res, err := d.finder.FindProviders(ctx, coords, models.ProviderHospital)
	if err != nil {
		d.logger.Warn("find-doctor provider lookup failed", zap.Error(err))
		sink.Notice(noticeFetchFailed)
		return
	}
	if res.Narrative != "" {
		sink.Notice(res.Narrative)
	}
	sink.Providers(coords, res)

	if res.NeedsAmbulance() {
		prompt := AmbulanceAlert(res.EmergencyNumbers)
		d.goFn(func(ctx context.Context) {
			t := time.NewTimer(d.cfg.AmbulancePromptDelay)
			defer t.Stop()
			select {
			case <-t.C:
				sink.AmbulancePrompt(prompt)
			case <-ctx.Done():
				d.logger.Debug("ambulance prompt abandoned", zap.Error(ctx.Err()))
			}
		})
	}
}

// GeolocationNotice maps a geolocation error to one of the fixed notices.
func GeolocationNotice(err error) string {
	switch {
	case errors.Is(err, discovery.ErrPermissionDenied):
		return noticeDenied
	case errors.Is(err, discovery.ErrPositionUnavailable):
		return noticeUnavailable
	case errors.Is(err, discovery.ErrTimeout):
		return noticeTimedOut
	case errors.Is(err, discovery.ErrGeolocationUnsupported):
		return noticeUnsupported
	}
	return noticeLocateFailed
}

// AmbulanceAlert builds the confirmation prompt. Numbers are listed by label.
func AmbulanceAlert(numbers map[string]string) models.AmbulancePrompt {
	labels := make([]string, 0, len(numbers))
	for k := range numbers {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	lines := make([]string, 0, len(labels))
	for _, k := range labels {
		lines = append(lines, k+": "+numbers[k])
	}
	msg := "🚨 URGENT: Ambulance may be needed!\n\n📞 Emergency Numbers:\n" +
		strings.Join(lines, "\n") +
		"\n\nPlease call immediately if symptoms are severe!"
	return models.AmbulancePrompt{
		Message:    msg,
		DialTarget: discovery.DialTarget(discovery.AmbulanceNumber(numbers)),
	}
}
