package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	require.True(t, StatusPending.CanTransition(StatusAccepted))
	require.True(t, StatusPending.CanTransition(StatusRejected))
	require.False(t, StatusPending.CanTransition(StatusPending))

	// Decisions are final.
	require.False(t, StatusAccepted.CanTransition(StatusRejected))
	require.False(t, StatusAccepted.CanTransition(StatusPending))
	require.False(t, StatusRejected.CanTransition(StatusAccepted))
	require.False(t, StatusRejected.CanTransition(StatusPending))
}

func TestStatusValid(t *testing.T) {
	require.True(t, StatusPending.Valid())
	require.True(t, StatusAccepted.Valid())
	require.True(t, StatusRejected.Valid())
	require.False(t, ApplicationStatus("approved").Valid())
	require.False(t, ApplicationStatus("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	require.False(t, StatusPending.Terminal())
	require.True(t, StatusAccepted.Terminal())
	require.True(t, StatusRejected.Terminal())
}

func TestFieldSubjects(t *testing.T) {
	for _, field := range []string{FieldScience, FieldArts, FieldCommercial} {
		require.True(t, ValidField(field))
		require.Len(t, SubjectsFor(field), 5)
	}
	require.False(t, ValidField("engineering"))
	require.Nil(t, SubjectsFor("engineering"))
}
