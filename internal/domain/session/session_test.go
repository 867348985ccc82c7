// internal/domain/session/session_test.go
package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	sessdom "sweetshop/internal/domain/session"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, sessdom.RoleAdmin, sessdom.ParseRole("admin"))
	assert.Equal(t, sessdom.RoleAdmin, sessdom.ParseRole("  admin  "))

	// anything else degrades to user
	assert.Equal(t, sessdom.RoleUser, sessdom.ParseRole("user"))
	assert.Equal(t, sessdom.RoleUser, sessdom.ParseRole(""))
	assert.Equal(t, sessdom.RoleUser, sessdom.ParseRole("Admin"))
	assert.Equal(t, sessdom.RoleUser, sessdom.ParseRole("superuser"))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, sessdom.RoleAdmin.IsAdmin())
	assert.False(t, sessdom.RoleUser.IsAdmin())
	assert.False(t, sessdom.Role("").IsAdmin())
}
