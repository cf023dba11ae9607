package executor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	t.Parallel()

	allowed := []struct{ from, to State }{
		{Pending, Running},
		{Running, Succeeded},
		{Running, Failed},
		{Running, Aborted},
		{Failed, Running},
		{Failed, Aborted},
	}
	for _, tc := range allowed {
		require.True(t, allowedTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	disallowed := []struct{ from, to State }{
		{Pending, Succeeded},
		{Pending, Failed},
		{Pending, Aborted},
		{Succeeded, Running},
		{Succeeded, Failed},
		{Aborted, Running},
		{Failed, Succeeded},
	}
	for _, tc := range disallowed {
		require.False(t, allowedTransition(tc.from, tc.to), "%s -> %s should be disallowed", tc.from, tc.to)
	}
}

func TestTransitionValidation(t *testing.T) {
	t.Parallel()

	r := &RunResult{State: Pending}
	require.NoError(t, r.transition(Running))
	require.NoError(t, r.transition(Failed))
	require.Error(t, r.transition(Succeeded))
	require.Equal(t, Failed, r.State, "invalid transition must not mutate state")
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	require.True(t, IsTerminal(Succeeded))
	require.True(t, IsTerminal(Aborted))
	require.False(t, IsTerminal(Pending))
	require.False(t, IsTerminal(Running))
	require.False(t, IsTerminal(Failed))
}
