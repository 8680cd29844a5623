package chat

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	msgs := make([]Message, 8)
	for i := range msgs {
		msgs[i] = Message{ID: strconv.Itoa(i)}
	}

	got := Window(msgs, 5)
	require.Len(t, got, 5)
	assert.Equal(t, "3", got[0].ID)
	assert.Equal(t, "7", got[4].ID)

	// Shorter than the window: returned unchanged.
	short := msgs[:2]
	assert.Equal(t, short, Window(short, 5))
	assert.Empty(t, Window(nil, 5))
}

func TestIDGenerator_Monotonic(t *testing.T) {
	var gen IDGenerator

	prev := int64(-1)
	for range 100 {
		id, err := strconv.ParseInt(gen.Next(), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "awaiting_name", StepAwaitingName.String())
	assert.Equal(t, "awaiting_email", StepAwaitingEmail.String())
	assert.Equal(t, "awaiting_interest", StepAwaitingInterest.String())
	assert.Equal(t, "complete", StepComplete.String())
	assert.Equal(t, "unknown", Step(42).String())
}
