// internal/store/session_store_test.go
package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sessdom "sweetshop/internal/domain/session"
	"sweetshop/internal/store"
)

func TestSessionStore(t *testing.T) {
	id := sessdom.Identity{UID: "u1", Email: "u1@example.com", DisplayName: "U One"}

	t.Run("StartsBooting", func(t *testing.T) {
		s := store.NewSessionStore()
		st := s.State()
		assert.True(t, st.Loading)
		assert.Nil(t, st.User)
		assert.False(t, st.IsAdmin)
	})

	t.Run("SetUserClearsLoading", func(t *testing.T) {
		s := store.NewSessionStore()
		s.SetUser(&id)

		st := s.State()
		assert.False(t, st.Loading)
		require.NotNil(t, st.User)
		assert.Equal(t, "u1", st.User.UID)
		assert.True(t, st.Authenticated())
	})

	t.Run("SetUserNilResolvesAnonymous", func(t *testing.T) {
		s := store.NewSessionStore()
		s.SetUser(nil)

		st := s.State()
		assert.False(t, st.Loading)
		assert.False(t, st.Authenticated())
	})

	t.Run("ClearResetsIdentityAdminAndError", func(t *testing.T) {
		s := store.NewSessionStore()
		s.SetUser(&id)
		s.SetAdmin(true)
		s.SetError(errors.New("boom"))

		s.Clear()

		st := s.State()
		assert.Nil(t, st.User)
		assert.False(t, st.IsAdmin)
		assert.NoError(t, st.Err)
	})

	t.Run("SubscriberSeesEveryTransition", func(t *testing.T) {
		s := store.NewSessionStore()
		var states []store.SessionState
		s.Subscribe(func(st store.SessionState) { states = append(states, st) })

		s.SetUser(&id)
		s.SetAdmin(true)

		require.Len(t, states, 2)
		assert.True(t, states[1].IsAdmin)
	})

	t.Run("SnapshotIdentityIsDetached", func(t *testing.T) {
		s := store.NewSessionStore()
		s.SetUser(&id)

		st := s.State()
		st.User.UID = "tampered"
		assert.Equal(t, "u1", s.State().User.UID)
	})
}
