package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/mwaldr/gigpack-server/internal/handler"    // import the handlers that implement business logic
	"github.com/mwaldr/gigpack-server/internal/middleware" // import middleware for JWT authentication and caching
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	// Create a route group under the /v1/auth prefix for operations that do
	// not require an existing session (register, login, refresh).  Each of
	// these handlers is responsible for generating or exchanging tokens.
	// Credential endpoints carry the token bucket limiter so password
	// guessing is throttled per client.
	g := e.Group("/v1/auth")
	if rl != nil {
		g.Use(rl)
	}
	// Register a POST endpoint to handle user registration at /v1/auth/register.
	g.POST("/register", a.Register)
	// Register a POST endpoint to handle user login at /v1/auth/login.
	g.POST("/login", a.Login)
	// Register a POST endpoint to refresh access tokens at /v1/auth/refresh. This rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Register a POST endpoint to issue a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Register a POST endpoint to log out using a refresh token.  Logout does
	// not require JWT authentication: the handler accepts a JSON body with a
	// `refresh_token` and invalidates that token, or revokes every session
	// when only a bearer token is supplied.
	g.POST("/logout", a.Logout)

	// Create another group for routes that require a valid access token.  All
	// handlers registered on this group will execute the JWTAuth middleware
	// before being invoked.  Protected endpoints live under /v1.
	auth := e.Group("/v1")
	// Apply the JWTAuth middleware to the protected group using the provided secret.
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Register a GET endpoint at /v1/me that returns the authenticated user's information.
	auth.GET("/me", a.Me)

	// Additionally map POST /v1/logout to the same handler.  This route lives
	// outside of the protected group so it does not require a JWT.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated share page endpoint.  The
// response cache middleware fronts it so repeated fetches of a popular
// share link do not hit the database.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	if cache != nil {
		e.GET("/v1/pack/:slug", p.GetBySlug, cache)
		return
	}
	e.GET("/v1/pack/:slug", p.GetBySlug)
}
