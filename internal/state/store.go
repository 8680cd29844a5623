package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brastorne/lebo/internal/chat"
)

// Load returns the persisted state for sessionID, or (nil, nil) when the
// session has no saved state.
func (s *Store) Load(ctx context.Context, sessionID string) (*chat.State, error) {
	const query = `
		SELECT history, step, profile
		FROM conversation_state
		WHERE session_id = ?`

	var historyJSON, profileJSON string
	var step int
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&historyJSON, &step, &profileJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation state: %w", err)
	}

	state := &chat.State{Step: chat.Step(step)}
	if err := json.Unmarshal([]byte(historyJSON), &state.Messages); err != nil {
		return nil, fmt.Errorf("corrupt message history for session %s: %w", sessionID, err)
	}
	if err := json.Unmarshal([]byte(profileJSON), &state.Profile); err != nil {
		return nil, fmt.Errorf("corrupt profile for session %s: %w", sessionID, err)
	}
	return state, nil
}

// Save upserts the full state for sessionID.
func (s *Store) Save(ctx context.Context, sessionID string, state *chat.State) error {
	historyJSON, err := json.Marshal(state.Messages)
	if err != nil {
		return fmt.Errorf("failed to encode message history: %w", err)
	}
	profileJSON, err := json.Marshal(state.Profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	const query = `
		INSERT INTO conversation_state (session_id, history, step, profile, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (session_id) DO UPDATE SET
			history = excluded.history,
			step = excluded.step,
			profile = excluded.profile,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query, sessionID, string(historyJSON), int(state.Step), string(profileJSON)); err != nil {
		return fmt.Errorf("failed to save conversation state: %w", err)
	}
	return nil
}

// Clear removes all persisted state for sessionID. Clearing an absent
// session is not an error.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversation_state WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear conversation state: %w", err)
	}
	return nil
}
