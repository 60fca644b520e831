package database

import (
	"testing"

	modelspkg "gymbuddy/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesSessionParticipant(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.SessionParticipant); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include SessionParticipant")
}

func TestPersistentModels_IncludesNotificationToken(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.NotificationToken); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include NotificationToken")
}
