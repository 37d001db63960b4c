// File: internal/flow/route.go
package flow

// Route identifies the screen a client flow is on.
type Route string

const (
	RouteLoading        Route = "loading"
	RouteWelcome        Route = "welcome"
	RouteLocationPicker Route = "location_picker"
	RouteHome           Route = "home"
)

// SessionState is the session router's state.
type SessionState string

const (
	StateLoading         SessionState = "loading"
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticated   SessionState = "authenticated"
)
