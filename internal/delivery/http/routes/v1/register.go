package v1

import (
	"referral-radar/internal/config"
	"referral-radar/internal/delivery/http/handler"
	"referral-radar/internal/delivery/http/middleware"
	"referral-radar/internal/pkg/jwt"
	"referral-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps carries everything the v1 routes need from the container.
type Deps struct {
	Config      config.Config
	Connections *usecase.Connections
	Jobs        *usecase.Jobs
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(deps.Config.Auth.AccessSecret, deps.Config.Auth.AccessExpiresIn)
	authMw := middleware.NewAuthMiddleware(jwtSvc, deps.Config.Auth.Enabled, deps.Config.Auth.DefaultUserID)

	protected := r.Group("", authMw.Middleware())

	handler.NewConnectionsHandler(deps.Connections).RegisterRoutes(protected)
	handler.NewJobsHandler(deps.Jobs).RegisterRoutes(protected)
}
