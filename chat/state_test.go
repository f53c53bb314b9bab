package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceRejectsBlankInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		state, err := Reduce(State{}, UserSubmitted{Text: text})
		assert.ErrorIs(t, err, ErrBlankInput)
		assert.Empty(t, state.Transcript)
		assert.False(t, state.Pending)
	}
}

func TestReduceRejectsWhilePending(t *testing.T) {
	state, err := Reduce(State{}, UserSubmitted{Text: "first"})
	require.NoError(t, err)

	next, err := Reduce(state, UserSubmitted{Text: "second"})
	assert.ErrorIs(t, err, ErrPending)
	assert.Equal(t, []Message{UserMessage("first")}, next.Transcript)
	assert.True(t, next.Pending)
}

func TestReduceSuccessfulCycle(t *testing.T) {
	state := State{Draft: "Hello"}
	state, err := Reduce(state, UserSubmitted{Text: "Hello"})
	require.NoError(t, err)
	assert.True(t, state.Pending)
	assert.Empty(t, state.Draft)

	state, err = Reduce(state, BotReplied{Text: "Hi there"})
	require.NoError(t, err)
	assert.False(t, state.Pending)
	assert.Equal(t, []Message{UserMessage("Hello"), BotMessage("Hi there")}, state.Transcript)
}

func TestReduceFailedCycle(t *testing.T) {
	state, err := Reduce(State{}, UserSubmitted{Text: "test"})
	require.NoError(t, err)

	state, err = Reduce(state, RequestFailed{Message: FAILURE_MESSAGE})
	require.NoError(t, err)
	assert.False(t, state.Pending)
	assert.Equal(t, FAILURE_MESSAGE, state.LastError)
	assert.Equal(t, []Message{UserMessage("test")}, state.Transcript)
}

func TestReduceClearsLastErrorOnSubmit(t *testing.T) {
	state := State{LastError: "previous failure"}
	state, err := Reduce(state, UserSubmitted{Text: "again"})
	require.NoError(t, err)
	assert.Empty(t, state.LastError)
}

func TestReduceKeepsEarlierStatesIntact(t *testing.T) {
	first, err := Reduce(State{}, UserSubmitted{Text: "one"})
	require.NoError(t, err)
	second, err := Reduce(first, BotReplied{Text: "two"})
	require.NoError(t, err)

	assert.Len(t, first.Transcript, 1)
	assert.Len(t, second.Transcript, 2)
	assert.Equal(t, UserMessage("one"), second.Transcript[0])
}

func TestReduceDraft(t *testing.T) {
	state, err := Reduce(State{}, DraftChanged{Text: "typing"})
	require.NoError(t, err)
	assert.Equal(t, "typing", state.Draft)

	state, err = Reduce(state, DraftReset{})
	require.NoError(t, err)
	assert.Empty(t, state.Draft)
	assert.Empty(t, state.Transcript)
}
