package services

import (
	"context"
	"log"
	"strings"

	"eshopClient/entities"
	"eshopClient/localstore"
	"eshopClient/models"
	"eshopClient/repository"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	rolePrefix = "ROLE_"
)

// Session is the derived view of the current credential: who the caller
// is and what they can do. It is recomputed on every credential change,
// never stored on its own. IsAdmin always equals the presence of ADMIN in
// Roles; there is no state where the two disagree.
type Session struct {
	User *entities.User
	// PartialUser holds the identity hints decoded from a credential
	// whose profile fetch failed. Display only: the session itself is
	// anonymous when this is set.
	PartialUser *entities.User
	Roles       []string
	IsAdmin     bool
	Loading     bool
}

// SessionService owns the persisted credential and the derived session.
// All mutations happen on the UI goroutine in response to user actions or
// completed requests, so there is no locking here.
type SessionService struct {
	ar      repository.AuthRepository
	store   localstore.Store
	session Session
}

func NewSessionService(authRepo repository.AuthRepository, store localstore.Store) SessionService {
	return SessionService{
		ar:      authRepo,
		store:   store,
		session: Session{Loading: true},
	}
}

func (ss *SessionService) Session() Session {
	return ss.session
}

// Initialize derives the session from whatever credential survived the
// last run. The token payload only supplies a provisional role hint; the
// profile fetch is the authoritative source. A failed profile fetch
// degrades to logout (credential cleared, identity hints kept for
// display) instead of surfacing an error: there is nothing the user
// could do about a dead credential except sign in again.
func (ss *SessionService) Initialize(ctx context.Context) {
	ss.session = Session{Loading: true}
	defer func() {
		ss.session.Loading = false
	}()

	token, exists, err := ss.store.Get(localstore.KeyToken)
	if err != nil {
		log.Printf("Initialize: %v", err)
	}
	if !exists || token == "" {
		return
	}

	claims := DecodeTokenClaims(token)
	ss.setRoles(NormalizeRoles(claims.Roles))

	profile, err := ss.ar.Profile(ctx)
	if err == nil {
		ss.session.User = &entities.User{
			Id:       profile.Id,
			Username: profile.Username,
			Email:    profile.Email,
			Roles:    rolesFromNames(profile.Roles),
		}
		ss.session.PartialUser = nil
		if len(profile.Roles) > 0 {
			ss.setRoles(NormalizeRoles(profile.Roles))
		}
		return
	}
	log.Printf("Initialize: profile fetch: %v", err)

	var partial *entities.User
	if claims.Username != "" || claims.Email != "" {
		partial = &entities.User{Username: claims.Username, Email: claims.Email}
	}
	if err := ss.store.Delete(localstore.KeyToken); err != nil {
		log.Printf("Initialize: %v", err)
	}
	ss.session.User = nil
	ss.session.PartialUser = partial
	ss.setRoles(nil)
}

// Login authenticates and, on success, persists the credential and takes
// the identity straight from the signin response (not re-derived from the
// token). On failure no session state changes.
func (ss *SessionService) Login(ctx context.Context, username, password string) (err error) {
	resp, err := ss.ar.Signin(ctx, models.Credentials{Username: username, Password: password})
	if err != nil {
		log.Printf("Login: %v", err)
		return
	}
	if err = ss.store.Set(localstore.KeyToken, resp.Token); err != nil {
		return
	}
	ss.session.User = &entities.User{
		Username: resp.Username,
		Email:    resp.Email,
		Roles:    rolesFromNames(resp.Roles),
	}
	ss.session.PartialUser = nil
	ss.setRoles(NormalizeRoles(resp.Roles))
	ss.session.Loading = false
	return
}

// Register creates an account. It does not establish a session: the user
// signs in afterwards.
func (ss *SessionService) Register(ctx context.Context, username, email, password string) (message string, err error) {
	message, err = ss.ar.Signup(ctx, models.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		log.Printf("Register: %v", err)
	}
	return
}

// Logout clears the credential and resets the session to anonymous. It
// cannot fail: a storage error is logged and the in-memory session is
// reset regardless.
func (ss *SessionService) Logout() {
	if err := ss.store.Delete(localstore.KeyToken); err != nil {
		log.Printf("Logout: %v", err)
	}
	ss.session = Session{}
}

func (ss *SessionService) HasRole(name string) bool {
	normalized := NormalizeRole(name)
	for _, role := range ss.session.Roles {
		if role == normalized {
			return true
		}
	}
	return false
}

func (ss *SessionService) HasAnyRole(names []string) bool {
	for _, name := range names {
		if ss.HasRole(name) {
			return true
		}
	}
	return false
}

// RememberedUsername returns the login-form prefill, if any. Convenience
// state, not security relevant.
func (ss *SessionService) RememberedUsername() string {
	value, _, err := ss.store.Get(localstore.KeyRememberedUsername)
	if err != nil {
		log.Printf("RememberedUsername: %v", err)
	}
	return value
}

func (ss *SessionService) RememberUsername(username string, remember bool) {
	var err error
	if remember {
		err = ss.store.Set(localstore.KeyRememberedUsername, username)
	} else {
		err = ss.store.Delete(localstore.KeyRememberedUsername)
	}
	if err != nil {
		log.Printf("RememberUsername: %v", err)
	}
}

func (ss *SessionService) setRoles(roles []string) {
	ss.session.Roles = roles
	ss.session.IsAdmin = false
	for _, role := range roles {
		if role == RoleAdmin {
			ss.session.IsAdmin = true
			return
		}
	}
}

// NormalizeRole maps any observed spelling of a role claim onto its
// canonical short form: "ROLE_ADMIN", "admin" and "ADMIN" all become
// "ADMIN". Idempotent.
func NormalizeRole(name string) string {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(name)), rolePrefix)
}

func NormalizeRoles(names []string) []string {
	var roles []string
	for _, name := range names {
		if normalized := NormalizeRole(name); normalized != "" {
			roles = append(roles, normalized)
		}
	}
	return roles
}

func rolesFromNames(names []string) []entities.Role {
	var roles []entities.Role
	for _, name := range names {
		roles = append(roles, entities.Role{Name: name})
	}
	return roles
}

// DecodeTokenClaims reads the payload of the bearer token without
// verifying the signature. Best-effort hint for display and provisional
// roles, never a trust boundary: authorization is decided by the backend
// and the authoritative identity comes from /auth/profile. A malformed
// token yields empty claims.
func DecodeTokenClaims(token string) (claims models.TokenClaims) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		log.Printf("DecodeTokenClaims: %v", err)
		return
	}
	payload, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return
	}

	if sub, ok := payload["sub"].(string); ok && sub != "" {
		claims.Username = sub
	} else if username, ok := payload["username"].(string); ok {
		claims.Username = username
	}
	if email, ok := payload["email"].(string); ok {
		claims.Email = email
	}

	// role claims travel under different names depending on the token
	// issuer, and each may be a single string or a list
	for _, key := range []string{"roles", "authorities", "scope"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		claims.Roles = claimStrings(raw)
		break
	}
	return
}

func claimStrings(raw any) []string {
	switch value := raw.(type) {
	case string:
		return []string{value}
	case []any:
		var list []string
		for _, item := range value {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return list
	default:
		return nil
	}
}
