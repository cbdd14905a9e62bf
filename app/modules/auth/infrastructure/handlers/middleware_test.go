package authhandlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/jwt"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRegistrar struct {
	players []leaguetypes.Player
}

func (r *recordingRegistrar) RegisterPlayer(_ context.Context, player leaguetypes.Player) {
	r.players = append(r.players, player)
}

func TestIdentityMiddleware(t *testing.T) {
	provider := authjwt.NewProvider("test-secret-at-least-32-chars-long!!", "")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	valid, err := provider.GenerateToken(&authdomain.Claims{PlayerID: "u-1", Name: "Paul"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		wantStatus     int
		wantPlayer     leaguetypes.PlayerID
		wantRegistered int
	}{
		{name: "anonymous passes through", wantStatus: http.StatusOK},
		{name: "valid bearer", header: "Bearer " + valid, wantStatus: http.StatusOK, wantPlayer: "u-1", wantRegistered: 1},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registrar := &recordingRegistrar{}
			var seen leaguetypes.PlayerID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = PlayerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/leagues", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			IdentityMiddleware(provider, registrar, logger)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantPlayer, seen)
			require.Len(t, registrar.players, tt.wantRegistered)
			if tt.wantRegistered > 0 {
				assert.Equal(t, leaguetypes.Player{ID: "u-1", Name: "Paul", IsUser: true}, registrar.players[0])
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	RequireIdentity(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithClaims(req.Context(), &authdomain.Claims{PlayerID: "u-9"}))
	rec = httptest.NewRecorder()
	RequireIdentity(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0, 2)
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter_ReusesLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	assert.Same(t, limiter.GetLimiter("a"), limiter.GetLimiter("a"))
	assert.NotSame(t, limiter.GetLimiter("a"), limiter.GetLimiter("b"))
}
