package handlers

import "eshopClient/services"

// View names the guards can redirect to.
const (
	ViewHome  = "home"
	ViewLogin = "login"
)

// Decision is the outcome of a route guard check. Pending means the
// session is still being derived and nothing should render yet.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionAllow
	DecisionRedirect
)

type GuardResult struct {
	Decision Decision
	Target   string
}

// RequireAuth gates views that need a signed-in user. While the session
// is loading the answer is Pending, never a premature redirect.
func RequireAuth(session services.Session) GuardResult {
	if session.Loading {
		return GuardResult{Decision: DecisionPending}
	}
	if session.User == nil {
		return GuardResult{Decision: DecisionRedirect, Target: ViewLogin}
	}
	return GuardResult{Decision: DecisionAllow}
}

// RequireAdmin gates the management panel. The authentication check runs
// first: an anonymous caller goes to login, a signed-in non-admin goes
// home.
func RequireAdmin(session services.Session) GuardResult {
	auth := RequireAuth(session)
	if auth.Decision != DecisionAllow {
		return auth
	}
	if !session.IsAdmin {
		return GuardResult{Decision: DecisionRedirect, Target: ViewHome}
	}
	return GuardResult{Decision: DecisionAllow}
}
