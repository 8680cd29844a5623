package conversation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brastorne/lebo/internal/chat"
)

// Sentinel errors, checked with errors.Is.
var (
	// ErrBusy indicates a send is already in flight for this session.
	ErrBusy = errors.New("a message is already being processed")

	// ErrEmptyInput indicates the input was empty or whitespace.
	ErrEmptyInput = errors.New("empty input")
)

// persistTimeout bounds fire-and-forget persistence writes so a stuck
// store cannot hang a send.
const persistTimeout = 5 * time.Second

// Replier answers a completed-onboarding query. transport.Router
// satisfies this; it never fails, it falls back.
type Replier interface {
	Reply(ctx context.Context, query string, history []chat.Message) string
}

// StateStore persists conversation state keyed by session. Load returns
// (nil, nil) when no state exists for the session.
type StateStore interface {
	Load(ctx context.Context, sessionID string) (*chat.State, error)
	Save(ctx context.Context, sessionID string, state *chat.State) error
	Clear(ctx context.Context, sessionID string) error
}

// LeadSaver persists the finalized user profile once onboarding
// completes.
type LeadSaver interface {
	Save(ctx context.Context, profile chat.Profile) error
}

// EventLogger emits analytics events. Implementations must be
// non-blocking; failures are theirs to swallow.
type EventLogger interface {
	LogQuery(ctx context.Context, query string)
}

// Config carries the controller's collaborators. Store, Leads and
// Analytics may be nil; the controller then skips the corresponding side
// effects.
type Config struct {
	SessionID string
	Router    Replier
	Store     StateStore
	Leads     LeadSaver
	Analytics EventLogger
	Logger    *slog.Logger
}

// Controller is the conversation facade for one session. It owns the
// ConversationState exclusively and enforces single-flight sends: while
// one Send is outstanding, further Sends return ErrBusy so message
// ordering can never interleave.
type Controller struct {
	sessionID string
	router    Replier
	store     StateStore
	leads     LeadSaver
	analytics EventLogger
	logger    *slog.Logger

	ids      chat.IDGenerator
	inFlight atomic.Bool

	mu    sync.Mutex
	state chat.State
}

// New creates a Controller. Call Restore before the first Send to load
// or seed the session state.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		sessionID: cfg.SessionID,
		router:    cfg.Router,
		store:     cfg.Store,
		leads:     cfg.Leads,
		analytics: cfg.Analytics,
		logger:    logger,
	}
}

// Restore loads persisted state for the session, or seeds a fresh
// conversation with the initial onboarding prompt when none exists.
func (c *Controller) Restore(ctx context.Context) error {
	if c.store != nil {
		state, err := c.store.Load(ctx, c.sessionID)
		if err != nil {
			return err
		}
		if state != nil && len(state.Messages) > 0 {
			c.mu.Lock()
			c.state = *state
			c.mu.Unlock()
			return nil
		}
	}

	c.mu.Lock()
	c.state = c.initialState()
	c.mu.Unlock()
	c.persist(ctx)
	return nil
}

// State returns a snapshot of the conversation state.
func (c *Controller) State() chat.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := c.state
	snapshot.Messages = make([]chat.Message, len(c.state.Messages))
	copy(snapshot.Messages, c.state.Messages)
	return snapshot
}

// Send processes one user input. It appends the user message
// synchronously, runs onboarding or the transport router, and appends
// exactly one assistant message, which it returns. Every user message is
// answered, even on failure: the router degrades to the fallback reply
// rather than erroring.
func (c *Controller) Send(ctx context.Context, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, ErrEmptyInput
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return chat.Message{}, ErrBusy
	}
	defer c.inFlight.Store(false)

	// History window is captured before the user message is appended,
	// matching the wire contract of the backend.
	c.mu.Lock()
	history := snapshotWindow(c.state.Messages)
	step := c.state.Step
	c.state.Messages = append(c.state.Messages, chat.Message{
		ID:        c.ids.Next(),
		Role:      chat.RoleUser,
		Content:   text,
		CreatedAt: time.Now(),
	})
	c.mu.Unlock()
	c.persist(ctx)

	if c.analytics != nil {
		c.analytics.LogQuery(ctx, text)
	}

	var reply string
	var completed bool
	if step < chat.StepComplete {
		c.mu.Lock()
		reply, completed = advanceOnboarding(&c.state, text)
		c.mu.Unlock()
	} else {
		reply = c.router.Reply(ctx, text, history)
	}

	assistant := chat.Message{
		ID:        c.ids.Next(),
		Role:      chat.RoleAssistant,
		Content:   reply,
		CreatedAt: time.Now(),
	}
	c.mu.Lock()
	c.state.Messages = append(c.state.Messages, assistant)
	c.mu.Unlock()
	c.persist(ctx)

	if completed {
		c.saveLead(ctx)
	}

	return assistant, nil
}

// Reset reinitializes the conversation to the initial onboarding prompt
// and clears all persisted session fields together. It is idempotent.
func (c *Controller) Reset(ctx context.Context) error {
	if !c.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.inFlight.Store(false)

	c.mu.Lock()
	c.state = c.initialState()
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Clear(ctx, c.sessionID); err != nil {
			return err
		}
	}
	c.persist(ctx)
	return nil
}

func (c *Controller) initialState() chat.State {
	return chat.State{
		Messages: []chat.Message{{
			ID:        c.ids.Next(),
			Role:      chat.RoleAssistant,
			Content:   greeting(),
			CreatedAt: time.Now(),
		}},
		Step: chat.StepAwaitingName,
	}
}

// persist writes the current state after an in-memory mutation.
// Persistence failures are logged, never surfaced: the conversation
// continues on the in-memory state.
func (c *Controller) persist(ctx context.Context) {
	if c.store == nil {
		return
	}
	snapshot := c.State()

	saveCtx, cancel := context.WithTimeout(withoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := c.store.Save(saveCtx, c.sessionID, &snapshot); err != nil {
		c.logger.Warn("failed to persist conversation state", "session", c.sessionID, "error", err)
	}
}

// saveLead persists the finalized profile exactly once, at the
// transition into StepComplete. Failures are logged and swallowed;
// onboarding completion is never rolled back.
func (c *Controller) saveLead(ctx context.Context) {
	if c.leads == nil {
		return
	}
	c.mu.Lock()
	profile := c.state.Profile
	c.mu.Unlock()

	saveCtx, cancel := context.WithTimeout(withoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := c.leads.Save(saveCtx, profile); err != nil {
		c.logger.Warn("failed to persist lead", "session", c.sessionID, "error", err)
	}
}

func snapshotWindow(msgs []chat.Message) []chat.Message {
	window := chat.Window(msgs, chat.HistoryWindow)
	out := make([]chat.Message, len(window))
	copy(out, window)
	return out
}

// withoutCancel detaches side-effect writes from the request context so
// a canceled request cannot skip the write-after-mutate ordering.
func withoutCancel(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
