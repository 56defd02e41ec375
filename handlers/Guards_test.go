package handlers

import (
	"testing"

	"eshopClient/entities"
	"eshopClient/services"

	"github.com/stretchr/testify/assert"
)

func TestRequireAuthPendingWhileLoading(t *testing.T) {
	result := RequireAuth(services.Session{Loading: true})
	assert.Equal(t, DecisionPending, result.Decision)

	// loading wins even when a stale user is still present
	result = RequireAuth(services.Session{Loading: true, User: &entities.User{Username: "demo"}})
	assert.Equal(t, DecisionPending, result.Decision)
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	result := RequireAuth(services.Session{})
	assert.Equal(t, DecisionRedirect, result.Decision)
	assert.Equal(t, ViewLogin, result.Target)
}

func TestRequireAuthAllowsSignedIn(t *testing.T) {
	result := RequireAuth(services.Session{User: &entities.User{Username: "demo"}})
	assert.Equal(t, DecisionAllow, result.Decision)
}

func TestRequireAdminChecksAuthFirst(t *testing.T) {
	// anonymous goes to login, not home
	result := RequireAdmin(services.Session{})
	assert.Equal(t, DecisionRedirect, result.Decision)
	assert.Equal(t, ViewLogin, result.Target)

	result = RequireAdmin(services.Session{Loading: true})
	assert.Equal(t, DecisionPending, result.Decision)
}

func TestRequireAdminRedirectsNonAdminHome(t *testing.T) {
	result := RequireAdmin(services.Session{
		User:  &entities.User{Username: "demo"},
		Roles: []string{services.RoleUser},
	})
	assert.Equal(t, DecisionRedirect, result.Decision)
	assert.Equal(t, ViewHome, result.Target)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	result := RequireAdmin(services.Session{
		User:    &entities.User{Username: "admin"},
		Roles:   []string{services.RoleUser, services.RoleAdmin},
		IsAdmin: true,
	})
	assert.Equal(t, DecisionAllow, result.Decision)
}
