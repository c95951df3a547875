// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
)

// ReadinessCheck reports whether an optional dependency is ready.
// A nil check means the dependency is not configured and readiness
// degrades to liveness.
type ReadinessCheck func(c *fiber.Ctx) bool

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (app is ready, cache reachable when enabled)
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(ready ReadinessCheck) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		// Liveness probe - is the application running?
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true // Always return true if the app is running
		},

		// Readiness probe - is the application ready to serve traffic?
		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if ready == nil {
				return true
			}

			return ready(c)
		},
	})
}
