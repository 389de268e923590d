package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/conversation"
	"healthguide/services/inference"
)

// SubmitSymptoms replaces the symptom context, queues its restatement with
// the structured payload attached, and runs inference without a temperature.
func (o *Orchestrator) SubmitSymptoms(ctx context.Context, sel models.SymptomSelection) models.SymptomContext {
	sub := o.intake.SubmitSymptoms(ctx, sel)
	payload := sub.Context.Payload()

	o.mu.Lock()
	sc := sub.Context
	o.symptoms = &sc
	if sub.Restatement != "" {
		o.pendingPayload = &payload
	}
	o.mu.Unlock()

	o.queuePrefill(sub.Restatement)
	o.detect(sc.Symptoms, "", sc.DurationDays)
	return sc
}

// SubmitTemperature assesses a reading. On success the category is merged,
// the restatement queued and inference re-run with the category. On failure
// prior state is untouched.
func (o *Orchestrator) SubmitTemperature(ctx context.Context, reading models.TemperatureReading) (models.TemperatureState, error) {
	sub, err := o.intake.SubmitTemperature(ctx, o.sessions.ID(), reading)
	if err != nil {
		return models.TemperatureState{}, err
	}

	o.mu.Lock()
	state := sub.State
	o.temperature = &state
	var symptoms []string
	var duration *int
	if o.symptoms != nil {
		symptoms = o.symptoms.Symptoms
		duration = o.symptoms.DurationDays
	}
	o.mu.Unlock()

	o.queuePrefill(sub.Restatement)
	if state.Assessment != nil {
		o.detect(symptoms, state.Assessment.Category, duration)
	}
	return state, nil
}

// Chat sends free text from the user.
func (o *Orchestrator) Chat(ctx context.Context, text string, kind models.MessageKind) (conversation.Turn, error) {
	if o.sessions.ID() == "" {
		if _, err := o.sessions.EnsureSession(ctx); err != nil {
			return conversation.Turn{}, err
		}
	}
	return o.conversation.Send(ctx, text, kind)
}

// queuePrefill sends text once the session is ready. The pending symptom
// payload, if any, rides on this prefill only.
func (o *Orchestrator) queuePrefill(text string) {
	if text == "" {
		return
	}
	o.mu.Lock()
	payload := o.pendingPayload
	o.pendingPayload = nil
	o.mu.Unlock()

	o.goBackground(func() {
		if _, err := o.conversation.Prefill(o.ctx, text, payload); err != nil {
			o.logger.Debug("prefill not sent", zap.String("message", text), zap.Error(err))
		}
	})
}

func (o *Orchestrator) detect(symptoms []string, temperatureCategory string, duration *int) {
	if len(symptoms) == 0 {
		return
	}
	symptoms = append([]string(nil), symptoms...)
	o.goBackground(func() {
		res, err := o.inference.Detect(o.ctx, symptoms, temperatureCategory, duration)
		if err != nil {
			return
		}
		o.applyInference(res)
	})
}

// applyInference only sees successful detections, so a failed newer request
// never moves appliedGen past an earlier result still in flight.
func (o *Orchestrator) applyInference(res inference.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res.Stale || res.Generation < o.appliedGen {
		return
	}
	o.appliedGen = res.Generation
	o.causes = res.Causes
	o.homeCare = res.HomeCare
	if res.MedicationSuggestions != nil {
		o.medSuggestions = res.MedicationSuggestions
	}
}
