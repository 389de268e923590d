// Package conversation runs the multi-turn exchange with the remote triage
// service and tracks completion and red flags.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/localstore"
	"healthguide/services/remote"
)

const (
	WelcomeMessage = "👋 Hello! I'm HealthGuide, your AI assistant for the Fever Helpline.\nI understand you're concerned about a fever. Can you tell me about your symptoms?"
	ApologyMessage = "⚠️ Sorry, I'm having trouble processing your request. Please try again or contact emergency services if this is urgent."

	roleUser      = "user"
	roleAssistant = "assistant"
)

var (
	ErrInputDisabled   = errors.New("conversation input is disabled")
	ErrSessionNotReady = errors.New("conversation session is not ready")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrPrefillDropped  = errors.New("prefill dropped: session not ready in time")
)

type Triager interface {
	Triage(ctx context.Context, req remote.TriageRequest) (*remote.TriageResponse, error)
}

type SessionSource interface {
	ID() string
	WaitReady(ctx context.Context) (string, error)
}

type Config struct {
	LLMProvider  string
	PrefillWait  time.Duration
	PrefillDelay time.Duration
}

// Turn is the outcome of one Send or Prefill.
type Turn struct {
	// Local is set when the message was kept in the transcript only.
	Local         bool                 `json:"local"`
	Failed        bool                 `json:"failed"`
	Reply         string               `json:"reply,omitempty"`
	Triage        *models.TriageResult `json:"triage,omitempty"`
	Complete      bool                 `json:"complete"`
	ShowProviders bool                 `json:"show_providers"`
}

type Pipeline struct {
	triager  Triager
	sessions SessionSource
	store    *localstore.Store
	logger   *zap.Logger
	cfg      Config
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	// turn serialises outbound requests.
	turn sync.Mutex

	mu            sync.Mutex
	state         State
	messages      []models.ChatMessage
	lastTriage    *models.TriageResult
	redFlag       bool
	showProviders bool
}

// New starts a conversation with the welcome message already in the transcript.
func New(triager Triager, sessions SessionSource, store *localstore.Store, cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = "openai"
	}
	if cfg.PrefillWait <= 0 {
		cfg.PrefillWait = 5 * time.Second
	}
	p := &Pipeline{
		triager:  triager,
		sessions: sessions,
		store:    store,
		logger:   logger,
		cfg:      cfg,
		now:      time.Now,
		sleep:    sleepCtx,
		state:    StateInit,
	}
	p.messages = append(p.messages, models.ChatMessage{
		Role:      roleAssistant,
		Content:   WelcomeMessage,
		Kind:      models.KindTriage,
		Timestamp: p.now(),
	})
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SessionReady moves Init to Greeted. Later calls are no-ops.
func (p *Pipeline) SessionReady() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if next, err := Transition(p.state, EventSessionReady); err == nil {
		p.state = next
	}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// RedFlag is sticky for the life of the conversation.
func (p *Pipeline) RedFlag() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redFlag
}

// AppendNotice adds a location or provider notice to the transcript. It never
// reaches the triage service.
func (p *Pipeline) AppendNotice(text string) {
	p.appendMessage(roleUser, text, models.KindLocationNotice)
}

// Send submits user input. It is rejected while a reply is pending or once
// the conversation is complete.
func (p *Pipeline) Send(ctx context.Context, text string, kind models.MessageKind) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}
	if Classify(text, kind) == models.KindLocationNotice {
		p.AppendNotice(text)
		return Turn{Local: true}, nil
	}

	if !p.turn.TryLock() {
		return Turn{}, ErrInputDisabled
	}
	defer p.turn.Unlock()
	return p.sendLocked(ctx, text, nil)
}

// Prefill sends a synthetic user turn once the session exists. It waits at
// most PrefillWait for the session and drops the message after that. data is
// attached to this one send only.
func (p *Pipeline) Prefill(ctx context.Context, text string, data *models.SymptomPayload) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.cfg.PrefillWait)
	_, err := p.sessions.WaitReady(waitCtx)
	cancel()
	if err != nil {
		p.logger.Debug("dropping prefill message", zap.String("message", text), zap.Error(err))
		return Turn{}, ErrPrefillDropped
	}
	p.SessionReady()

	if err := p.sleep(ctx, p.cfg.PrefillDelay); err != nil {
		return Turn{}, err
	}

	if Classify(text, models.KindUnspecified) == models.KindLocationNotice {
		p.AppendNotice(text)
		return Turn{Local: true}, nil
	}

	p.turn.Lock()
	defer p.turn.Unlock()
	return p.sendLocked(ctx, text, data)
}

func (p *Pipeline) sendLocked(ctx context.Context, text string, data *models.SymptomPayload) (Turn, error) {
	p.mu.Lock()
	if p.state == StateInit && p.sessions.ID() != "" {
		p.state, _ = Transition(p.state, EventSessionReady)
	}
	switch {
	case p.state == StateInit:
		p.mu.Unlock()
		return Turn{}, ErrSessionNotReady
	case !p.state.AcceptsInput():
		p.mu.Unlock()
		return Turn{}, ErrInputDisabled
	}
	p.state, _ = Transition(p.state, EventMessageSent)

	history := make([]models.HistoryEntry, 0, len(p.messages))
	for _, m := range p.messages {
		history = append(history, models.HistoryEntry{Role: m.Role, Content: m.Content})
	}
	p.messages = append(p.messages, models.ChatMessage{Role: roleUser, Content: text, Kind: models.KindTriage, Timestamp: p.now()})
	p.mu.Unlock()

	sessionID := p.sessions.ID()
	resp, err := p.triager.Triage(ctx, remote.TriageRequest{
		SessionID:           sessionID,
		Message:             text,
		ConversationHistory: history,
		LLMProvider:         p.cfg.LLMProvider,
		SymptomData:         data,
	})
	if err != nil {
		p.logger.Warn("triage turn failed", zap.String("sessionID", sessionID), zap.Error(err))
		p.mu.Lock()
		p.messages = append(p.messages, models.ChatMessage{Role: roleAssistant, Content: ApologyMessage, Kind: models.KindTriage, Timestamp: p.now()})
		p.state, _ = Transition(p.state, EventNetworkError)
		p.mu.Unlock()
		return Turn{Failed: true, Reply: ApologyMessage}, nil
	}

	complete := resp.ConversationComplete
	if tr := resp.TriageResult; tr != nil {
		if tr.TriageLevel != "" {
			if err := p.store.SetTriageLevel(ctx, tr.TriageLevel); err != nil {
				p.logger.Warn("failed to persist triage level", zap.String("sessionID", sessionID), zap.Error(err))
			}
		}
		if tr.RedFlagDetected {
			complete = true
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, models.ChatMessage{Role: roleAssistant, Content: resp.Message, Kind: models.KindTriage, Timestamp: p.now()})
	if resp.TriageResult != nil {
		tr := *resp.TriageResult
		p.lastTriage = &tr
		if tr.RedFlagDetected {
			if !p.redFlag {
				p.logger.Info("red flag detected", zap.String("sessionID", sessionID), zap.String("symptom", tr.RedFlagSymptom))
			}
			p.redFlag = true
			p.showProviders = true
		}
	}
	event := EventReplyReceived
	if complete {
		event = EventReplyComplete
	}
	p.state, _ = Transition(p.state, event)

	var triage *models.TriageResult
	if p.lastTriage != nil {
		tr := *p.lastTriage
		triage = &tr
	}
	return Turn{
		Reply:         resp.Message,
		Triage:        triage,
		Complete:      p.state == StateComplete,
		ShowProviders: p.showProviders,
	}, nil
}

func (p *Pipeline) appendMessage(role, text string, kind models.MessageKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, models.ChatMessage{Role: role, Content: text, Kind: kind, Timestamp: p.now()})
}

// View is a copy of the transcript and affordances.
func (p *Pipeline) View() models.ConversationView {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := models.ConversationView{
		State:         p.state.String(),
		Messages:      append([]models.ChatMessage(nil), p.messages...),
		InputEnabled:  p.state.AcceptsInput(),
		Complete:      p.state == StateComplete,
		ShowProviders: p.showProviders,
	}
	if p.lastTriage != nil {
		tr := *p.lastTriage
		v.LastTriage = &tr
	}
	return v
}
