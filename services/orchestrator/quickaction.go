package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/conversation"
	"healthguide/services/discovery"
	"healthguide/services/quickaction"
)

// QuickAction runs intent. For find-doctor a nil fix waits for the browser to
// report one through ReportGPS.
func (o *Orchestrator) QuickAction(ctx context.Context, intent quickaction.Intent, fix *discovery.Fix) error {
	var src discovery.PositionSource = o.mailbox
	if fix != nil {
		src = *fix
	}
	return o.quick.Dispatch(ctx, intent, src, quickSink{o: o})
}

// StartQuickAction runs intent in the background so the caller can return
// before the browser reports a position.
func (o *Orchestrator) StartQuickAction(intent quickaction.Intent) error {
	if !quickaction.Known(intent) {
		return quickaction.ErrUnknownIntent
	}
	o.goBackground(func() {
		if err := o.QuickAction(o.ctx, intent, nil); err != nil {
			o.logger.Warn("quick action failed", zap.String("intent", string(intent)), zap.Error(err))
		}
	})
	return nil
}

// quickSink feeds dispatcher side effects back into orchestrator state.
type quickSink struct {
	o *Orchestrator
}

func (s quickSink) Prefill(text string) {
	s.o.queuePrefill(text)
}

// Notice records a quick-action message. Location and provider notices are
// also kept in the transcript, never sent for triage.
func (s quickSink) Notice(text string) {
	s.o.mu.Lock()
	s.o.notices = append(s.o.notices, text)
	s.o.mu.Unlock()
	if conversation.IsLocationNotice(text) {
		s.o.conversation.AppendNotice(text)
	}
}

func (s quickSink) OpenMap(coords models.Coordinates) {
	s.o.mu.Lock()
	defer s.o.mu.Unlock()
	s.o.coords = &coords
	s.o.mapOpen = true
}

func (s quickSink) Providers(coords models.Coordinates, res models.DiscoveryResult) {
	s.o.setProviders(coords, res)
}

func (s quickSink) AmbulancePrompt(p models.AmbulancePrompt) {
	s.o.mu.Lock()
	defer s.o.mu.Unlock()
	s.o.ambulancePrompt = &p
}

// DismissAmbulancePrompt clears a shown prompt.
func (o *Orchestrator) DismissAmbulancePrompt() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ambulancePrompt = nil
}
