package services

import (
	"context"
	"testing"
	"time"

	"eshopClient/localstore"
	"eshopClient/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, "ADMIN", NormalizeRole("ROLE_ADMIN"))
	assert.Equal(t, "ADMIN", NormalizeRole("admin"))
	assert.Equal(t, "ADMIN", NormalizeRole("  Role_Admin "))
	assert.Equal(t, "USER", NormalizeRole("user"))
	assert.Equal(t, "", NormalizeRole(""))
}

func TestNormalizeRoleIdempotent(t *testing.T) {
	for _, raw := range []string{"ROLE_ADMIN", "admin", "User", "ROLE_user", "MANAGER"} {
		once := NormalizeRole(raw)
		assert.Equal(t, once, NormalizeRole(once), raw)
	}
}

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func TestDecodeTokenClaims(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"sub":   "alice",
		"email": "alice@example.com",
		"roles": []any{"ROLE_USER", "ROLE_ADMIN"},
	})
	claims := DecodeTokenClaims(token)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, claims.Roles)
}

func TestDecodeTokenClaimsScopeString(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{"username": "bob", "scope": "ROLE_USER"})
	claims := DecodeTokenClaims(token)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, []string{"ROLE_USER"}, claims.Roles)
}

func TestDecodeTokenClaimsMalformed(t *testing.T) {
	claims := DecodeTokenClaims("not-a-token")
	assert.Empty(t, claims.Username)
	assert.Empty(t, claims.Roles)
}

func TestInitializeAnonymous(t *testing.T) {
	e := newEnv(t, nil)
	e.sessions.Initialize(context.Background())

	session := e.sessions.Session()
	assert.False(t, session.Loading)
	assert.Nil(t, session.User)
	assert.Empty(t, session.Roles)
	assert.False(t, session.IsAdmin)
}

func TestInitializeWithValidToken(t *testing.T) {
	e := newEnv(t, nil)
	e.login(t, "admin", "Admin123!")

	// a fresh service seeing only the persisted token
	restarted := NewSessionService(e.sessions.ar, e.store)
	restarted.Initialize(context.Background())

	session := restarted.Session()
	require.NotNil(t, session.User)
	assert.Equal(t, "admin", session.User.Username)
	assert.True(t, session.IsAdmin)
	assert.Contains(t, session.Roles, RoleAdmin)
	assert.False(t, session.Loading)
}

func TestInitializeProfileFailureClearsCredential(t *testing.T) {
	e := newEnv(t, nil)
	// a token the backend will reject but whose payload still decodes
	dead := mintToken(t, jwt.MapClaims{
		"sub":   "ghost",
		"email": "ghost@example.com",
		"roles": []any{"ROLE_ADMIN"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, e.store.Set(localstore.KeyToken, dead))

	e.sessions.Initialize(context.Background())

	session := e.sessions.Session()
	assert.Nil(t, session.User)
	assert.Empty(t, session.Roles)
	assert.False(t, session.IsAdmin)
	require.NotNil(t, session.PartialUser)
	assert.Equal(t, "ghost", session.PartialUser.Username)
	assert.Equal(t, "ghost@example.com", session.PartialUser.Email)

	_, exists, err := e.store.Get(localstore.KeyToken)
	require.NoError(t, err)
	assert.False(t, exists, "dead credential must be cleared")
}

func TestLoginPersistsTokenAndDerivesSession(t *testing.T) {
	e := newEnv(t, nil)
	e.login(t, "demo", "Demo123!")

	session := e.sessions.Session()
	require.NotNil(t, session.User)
	assert.Equal(t, "demo", session.User.Username)
	assert.Equal(t, []string{RoleUser}, session.Roles)
	assert.False(t, session.IsAdmin)

	token, exists, err := e.store.Get(localstore.KeyToken)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NotEmpty(t, token)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	e := newEnv(t, nil)
	err := e.sessions.Login(context.Background(), "demo", "wrong")
	require.Error(t, err)

	assert.Nil(t, e.sessions.Session().User)
	_, exists, getErr := e.store.Get(localstore.KeyToken)
	require.NoError(t, getErr)
	assert.False(t, exists)
}

func TestIsAdminTracksRolesAcrossTransitions(t *testing.T) {
	e := newEnv(t, nil)

	e.login(t, "admin", "Admin123!")
	session := e.sessions.Session()
	assert.Equal(t, containsString(session.Roles, RoleAdmin), session.IsAdmin)
	assert.True(t, session.IsAdmin)

	e.sessions.Logout()
	session = e.sessions.Session()
	assert.Equal(t, containsString(session.Roles, RoleAdmin), session.IsAdmin)
	assert.False(t, session.IsAdmin)

	e.login(t, "demo", "Demo123!")
	session = e.sessions.Session()
	assert.Equal(t, containsString(session.Roles, RoleAdmin), session.IsAdmin)
	assert.False(t, session.IsAdmin)
}

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func TestLogoutClearsCredential(t *testing.T) {
	e := newEnv(t, nil)
	e.login(t, "demo", "Demo123!")

	e.sessions.Logout()

	session := e.sessions.Session()
	assert.Nil(t, session.User)
	assert.False(t, session.IsAdmin)
	_, exists, err := e.store.Get(localstore.KeyToken)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHasRole(t *testing.T) {
	e := newEnv(t, nil)
	e.login(t, "admin", "Admin123!")

	assert.True(t, e.sessions.HasRole("ROLE_ADMIN"))
	assert.True(t, e.sessions.HasRole("admin"))
	assert.False(t, e.sessions.HasRole("MANAGER"))
	assert.True(t, e.sessions.HasAnyRole([]string{"MANAGER", "USER"}))
	assert.False(t, e.sessions.HasAnyRole([]string{"MANAGER"}))
}

func TestRegisterThenLogin(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	message, err := e.sessions.Register(ctx, "newcomer", "new@example.com", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, "Пользователь успешно зарегистрирован!", message)
	assert.Nil(t, e.sessions.Session().User, "registration does not sign in")

	require.NoError(t, e.sessions.Login(ctx, "newcomer", "Secret123!"))
	assert.Equal(t, "newcomer", e.sessions.Session().User.Username)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	e := newEnv(t, nil)
	_, err := e.sessions.Register(context.Background(), "demo", "other@example.com", "Secret123!")
	require.Error(t, err)
	assert.Equal(t, "Имя пользователя уже занято", models.ServerMessage(err, ""))
}

func TestRememberedUsername(t *testing.T) {
	e := newEnv(t, nil)
	assert.Empty(t, e.sessions.RememberedUsername())

	e.sessions.RememberUsername("demo", true)
	assert.Equal(t, "demo", e.sessions.RememberedUsername())

	e.sessions.RememberUsername("demo", false)
	assert.Empty(t, e.sessions.RememberedUsername())
}
