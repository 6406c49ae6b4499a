package ui

import "github.com/halvden/adminboard/internal/session"

// Route is the outcome of the navigation guard.
type Route int

const (
	// RouteLoading renders a wait indicator while the startup profile
	// fetch is outstanding.
	RouteLoading Route = iota
	// RouteLogin sends the visitor to the login form. The previously
	// focused view is kept so a re-login lands back where it started.
	RouteLogin
	// RouteProtected renders the signed-in area.
	RouteProtected
)

// resolveRoute gates navigation on session state alone.
func resolveRoute(s session.Snapshot) Route {
	if s.Loading {
		return RouteLoading
	}
	if s.Token == "" || s.User == nil {
		return RouteLogin
	}
	return RouteProtected
}
