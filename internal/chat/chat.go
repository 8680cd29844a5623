// Package chat defines the core conversation types shared by the
// controller, the RAG pipeline and the transport strategies.
package chat

import (
	"strconv"
	"sync"
	"time"
)

// Role identifies who authored a message.
type Role string

// Valid message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryWindow is the number of trailing messages sent as context with
// each query. It bounds prompt size; retrieved knowledge carries the rest.
const HistoryWindow = 5

// Message is a single conversation turn. The wire shape matches the
// backend /api/chat contract.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// Step is the onboarding progress of a session. It only ever advances.
type Step int

// Onboarding steps, in order.
const (
	StepAwaitingName Step = iota
	StepAwaitingEmail
	StepAwaitingInterest
	StepComplete
)

// String implements fmt.Stringer for logging.
func (s Step) String() string {
	switch s {
	case StepAwaitingName:
		return "awaiting_name"
	case StepAwaitingEmail:
		return "awaiting_email"
	case StepAwaitingInterest:
		return "awaiting_interest"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Profile is the user profile collected during onboarding.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Interest string `json:"interest"`
}

// State is the full conversation state of one session. It is owned
// exclusively by the conversation controller and persisted as a unit.
type State struct {
	Messages []Message `json:"messages"`
	Step     Step      `json:"onboardingStep"`
	Profile  Profile   `json:"userProfile"`
}

// Window returns the up-to-n most recent messages. The returned slice
// aliases msgs; callers must not mutate it.
func Window(msgs []Message, n int) []Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

// IDGenerator produces time-derived message IDs that are strictly
// monotonic within a session, even when messages land on the same
// millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

// Next returns the next message ID.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= g.last {
		now = g.last + 1
	}
	g.last = now
	return strconv.FormatInt(now, 10)
}
