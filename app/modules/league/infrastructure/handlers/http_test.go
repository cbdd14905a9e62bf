package leaguehandlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/jwt"
	leagueservice "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/application"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

type apiHarness struct {
	t        *testing.T
	server   http.Handler
	provider authjwt.Provider
	service  *leagueservice.LeagueService
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")

	svc := leagueservice.NewLeagueService(nil, nil, logger, nil, tracer, leagueservice.Config{
		Shuffle: func(ids []leaguetypes.PlayerID) []leaguetypes.PlayerID { return slices.Clone(ids) },
		NewID:   func() leaguetypes.LeagueID { return "abc123" },
	})
	provider := authjwt.NewProvider("test-secret", "bakeoff-test")

	r := chi.NewRouter()
	r.Use(authhandlers.IdentityMiddleware(provider, svc, logger))
	NewHTTPHandlers(svc, logger, tracer).Routes(r)

	return &apiHarness{t: t, server: r, provider: provider, service: svc}
}

func (h *apiHarness) token(player leaguetypes.PlayerID) string {
	h.t.Helper()
	tok, err := h.provider.GenerateToken(&authdomain.Claims{PlayerID: player, Name: strings.ToUpper(string(player))}, time.Hour)
	require.NoError(h.t, err)
	return tok
}

func (h *apiHarness) do(method, path string, player leaguetypes.PlayerID, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if player != "" {
		req.Header.Set("Authorization", "Bearer "+h.token(player))
	}
	rr := httptest.NewRecorder()
	h.server.ServeHTTP(rr, req)
	return rr
}

func decodeInto[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out), rr.Body.String())
	return out
}

func TestHTTPHandlers_ReadPreviewLeague(t *testing.T) {
	h := newAPIHarness(t)

	rr := h.do(http.MethodGet, "/api/leagues", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	leagues := decodeInto[[]leaguetypes.League](t, rr)
	require.Len(t, leagues, 1)
	assert.Equal(t, leaguetypes.PreviewLeagueID, leagues[0].ID)

	rr = h.do(http.MethodGet, "/api/leagues/preview-league/standings", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	standings := decodeInto[[]leagueservice.StandingView](t, rr)
	require.Len(t, standings, 4)
	for i := 1; i < len(standings); i++ {
		assert.GreaterOrEqual(t, standings[i-1].Score, standings[i].Score)
	}

	rr = h.do(http.MethodGet, "/api/leagues/preview-league/bakers/b5", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	baker := decodeInto[leaguetypes.Baker](t, rr)
	assert.Equal(t, leaguetypes.BakerStatusEliminated, baker.Status)

	rr = h.do(http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeInto[[]eventTypeView](t, rr), len(leaguetypes.AllEventTypes))
}

func TestHTTPHandlers_NotFound(t *testing.T) {
	h := newAPIHarness(t)

	for _, path := range []string{
		"/api/leagues/nope",
		"/api/leagues/nope/standings",
		"/api/leagues/nope/draft",
		"/api/leagues/nope/bakers",
		"/api/leagues/nope/export.xlsx",
		"/api/leagues/nope/chart.png",
		"/api/leagues/preview-league/bakers/b99",
	} {
		t.Run(path, func(t *testing.T) {
			rr := h.do(http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusNotFound, rr.Code)
		})
	}
}

func TestHTTPHandlers_MutationsRequireIdentity(t *testing.T) {
	h := newAPIHarness(t)

	rr := h.do(http.MethodPost, "/api/leagues", "", createLeagueRequest{Name: "Office"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = h.do(http.MethodPost, "/api/leagues/preview-league/join", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/leagues", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHTTPHandlers_DraftFlow(t *testing.T) {
	h := newAPIHarness(t)

	rr := h.do(http.MethodPost, "/api/leagues", "alice", createLeagueRequest{Name: "Office League"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeInto[leaguetypes.League](t, rr)
	assert.Equal(t, leaguetypes.LeagueID("abc123"), created.ID)
	assert.Equal(t, leaguetypes.PlayerID("alice"), created.OwnerID)
	assert.Equal(t, "ALICE", h.service.Player(t.Context(), "alice").Name)

	rr = h.do(http.MethodPost, "/api/leagues", "alice", createLeagueRequest{Name: "  "})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "name_required", decodeInto[errorResponse](t, rr).Reason)

	rr = h.do(http.MethodPost, "/api/leagues/abc123/join", "bob", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = h.do(http.MethodPost, "/api/leagues/abc123/join", "bob", nil)
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "already_member", decodeInto[errorResponse](t, rr).Reason)

	rr = h.do(http.MethodPost, "/api/leagues/abc123/draft/picks", "bob", pickRequest{BakerID: "b1"})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "not_your_turn", decodeInto[errorResponse](t, rr).Reason)

	rr = h.do(http.MethodPost, "/api/leagues/abc123/draft/picks", "alice", pickRequest{BakerID: "b1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = h.do(http.MethodPost, "/api/leagues/abc123/draft/picks", "bob", pickRequest{BakerID: "b1"})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "baker_unavailable", decodeInto[errorResponse](t, rr).Reason)

	rr = h.do(http.MethodGet, "/api/leagues/abc123/draft", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	status := decodeInto[leagueservice.DraftStatusView](t, rr)
	assert.Equal(t, leaguetypes.PlayerID("bob"), status.CurrentPlayerID)
	assert.Equal(t, 1, status.PicksMade)

	rr = h.do(http.MethodGet, "/api/leagues/abc123/free-agents", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, decodeInto[[]leaguetypes.BakerID](t, rr), leaguetypes.BakerID("b1"))

	rr = h.do(http.MethodPost, "/api/leagues/abc123/draft/picks", "bob", map[string]string{"baker": "b2"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHTTPHandlers_SubmitWeek(t *testing.T) {
	h := newAPIHarness(t)

	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/api/leagues", "alice", createLeagueRequest{Name: "Office"}).Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/leagues/abc123/draft/picks", "alice", pickRequest{BakerID: "b1"}).Code)

	rr := h.do(http.MethodPut, "/api/leagues/abc123/weeks/1", "alice", weekRequest{
		Events: []leaguetypes.WeeklyEvent{{BakerID: "b1", Type: "BURNT"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "unknown_event_type", decodeInto[errorResponse](t, rr).Reason)

	rr = h.do(http.MethodPut, "/api/leagues/abc123/weeks/0", "alice", weekRequest{})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = h.do(http.MethodPut, "/api/leagues/abc123/weeks/x", "alice", weekRequest{})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(http.MethodPut, "/api/leagues/abc123/weeks/1", "alice", weekRequest{
		Summary: "Cake week",
		Events: []leaguetypes.WeeklyEvent{
			{BakerID: "b1", Type: leaguetypes.EventStarBaker},
			{BakerID: "b1", Type: leaguetypes.EventCrying},
		},
		EliminatedBakerID: "b12",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = h.do(http.MethodGet, "/api/leagues/abc123/teams/alice/score", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 6, decodeInto[scoreResponse](t, rr).Score)

	rr = h.do(http.MethodGet, "/api/leagues/abc123/bakers/b1/breakdown", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	breakdown := decodeInto[[]leagueservice.WeekPointsView](t, rr)
	require.Len(t, breakdown, 1)
	assert.Equal(t, 6, breakdown[0].Points)

	rr = h.do(http.MethodGet, "/api/leagues/abc123/bakers/b12", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, leaguetypes.BakerStatusEliminated, decodeInto[leaguetypes.Baker](t, rr).Status)

	rr = h.do(http.MethodGet, "/api/leagues/abc123/cumulative", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	cumulative := decodeInto[[]leagueservice.CumulativeView](t, rr)
	require.Len(t, cumulative, 1)
	assert.Equal(t, []int{6}, cumulative[0].Totals)
}

func TestHTTPHandlers_ImportWeek(t *testing.T) {
	h := newAPIHarness(t)
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/api/leagues", "alice", createLeagueRequest{Name: "Office"}).Code)

	upload := func(week, fileName string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("summary", "Bread week"))
		require.NoError(t, mw.WriteField("eliminatedBakerId", "b4"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/leagues/abc123/weeks/"+week+"/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+h.token("alice"))
		rr := httptest.NewRecorder()
		h.server.ServeHTTP(rr, req)
		return rr
	}

	f := excelize.NewFile()
	for i, row := range [][]any{{"Week", "Baker", "Event"}, {2, "b3", "HANDSHAKE"}, {2, "b3", "STAR_BAKER"}} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rr := upload("2", "week2.xlsx", buf.Bytes())
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	league := decodeInto[leaguetypes.League](t, rr)
	require.Len(t, league.WeeklyLogs, 1)
	assert.Equal(t, "Bread week", league.WeeklyLogs[0].Summary)
	assert.Equal(t, leaguetypes.BakerID("b4"), league.WeeklyLogs[0].EliminatedBakerID)
	assert.Len(t, league.WeeklyLogs[0].Events, 2)

	rr = upload("3", "week3.csv", []byte("week,baker,event\n2,b3,CRYING\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = upload("3", "week3.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	rr = upload("3", "week3.csv", []byte("3,b3,NOT_AN_EVENT\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "invalid_sheet", decodeInto[errorResponse](t, rr).Reason)
}

func TestHTTPHandlers_Files(t *testing.T) {
	h := newAPIHarness(t)

	rr := h.do(http.MethodGet, "/api/leagues/preview-league/export.xlsx", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "preview-league.xlsx")
	wb, err := excelize.OpenReader(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, wb.GetSheetList(), "Standings")
	require.NoError(t, wb.Close())

	rr = h.do(http.MethodGet, "/api/leagues/preview-league/chart.png", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))
}
