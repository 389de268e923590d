package conversation

import (
	"errors"
	"fmt"
)

// State of one triage conversation.
type State int

const (
	StateInit State = iota
	StateGreeted
	StateAwaitingReply
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateGreeted:
		return "greeted"
	case StateAwaitingReply:
		return "awaiting_reply"
	case StateComplete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type Event int

const (
	EventSessionReady Event = iota
	EventMessageSent
	EventReplyReceived
	EventReplyComplete
	EventNetworkError
)

func (e Event) String() string {
	switch e {
	case EventSessionReady:
		return "session_ready"
	case EventMessageSent:
		return "message_sent"
	case EventReplyReceived:
		return "reply_received"
	case EventReplyComplete:
		return "reply_complete"
	case EventNetworkError:
		return "network_error"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

var ErrInvalidTransition = errors.New("invalid conversation transition")

// Transition is the whole conversation state machine. Complete is terminal.
func Transition(s State, e Event) (State, error) {
	switch {
	case s == StateInit && e == EventSessionReady:
		return StateGreeted, nil
	case s == StateGreeted && e == EventSessionReady:
		return StateGreeted, nil
	case s == StateGreeted && e == EventMessageSent:
		return StateAwaitingReply, nil
	case s == StateAwaitingReply && e == EventReplyReceived:
		return StateGreeted, nil
	case s == StateAwaitingReply && e == EventReplyComplete:
		return StateComplete, nil
	case s == StateAwaitingReply && e == EventNetworkError:
		return StateGreeted, nil
	case s == StateComplete && e == EventSessionReady:
		return StateComplete, nil
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}

// AcceptsInput reports whether a new outbound turn may start.
func (s State) AcceptsInput() bool {
	return s == StateGreeted
}
