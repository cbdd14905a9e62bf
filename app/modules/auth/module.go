package auth

import (
	"context"
	"log/slog"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/bakeoff-league/config"
	"golang.org/x/time/rate"
)

// Module adapts the external identity provider: it verifies bearer tokens and
// hands the player id to the league surfaces.
type Module struct {
	Provider authjwt.Provider
	limiter  *authhandlers.IPRateLimiter
	registry authhandlers.PlayerRegistrar
	logger   *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	registrar authhandlers.PlayerRegistrar,
) *Module {
	logger.InfoContext(ctx, "Initializing auth module")

	return &Module{
		Provider: authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer),
		limiter:  authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		registry: registrar,
		logger:   logger,
	}
}

// Middleware returns the HTTP middleware chain in application order.
func (m *Module) Middleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		authhandlers.RateLimitMiddleware(m.limiter),
		authhandlers.IdentityMiddleware(m.Provider, m.registry, m.logger),
	}
}
