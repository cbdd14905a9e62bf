package leaguehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	authhandlers "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/handlers"
	leagueservice "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/application"
	"github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/parsers"
	weeklylogdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/weeklylog/domain"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// maxUploadBytes bounds weekly event sheet uploads.
const maxUploadBytes = 4 << 20

// HTTPHandlers serves the REST API used by the league UI.
type HTTPHandlers struct {
	service leagueservice.Service
	parsers *parsers.Factory
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewHTTPHandlers creates the REST handlers.
func NewHTTPHandlers(service leagueservice.Service, logger *slog.Logger, tracer trace.Tracer) *HTTPHandlers {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("league-http")
	}
	return &HTTPHandlers{
		service: service,
		parsers: parsers.NewFactory(),
		logger:  logger,
		tracer:  tracer,
	}
}

// Routes mounts the API on r. Reads are public; anything that changes a
// league needs a verified player.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Get("/api/events", h.HandleEventTypes)

	r.Route("/api/leagues", func(r chi.Router) {
		r.Get("/", h.HandleListLeagues)
		r.With(authhandlers.RequireIdentity).Post("/", h.HandleCreateLeague)

		r.Route("/{leagueID}", func(r chi.Router) {
			r.Get("/", h.HandleGetLeague)
			r.Get("/draft", h.HandleDraftStatus)
			r.Get("/bakers", h.HandleBakers)
			r.Get("/bakers/{bakerID}", h.HandleBaker)
			r.Get("/bakers/{bakerID}/breakdown", h.HandleBakerBreakdown)
			r.Get("/free-agents", h.HandleFreeAgents)
			r.Get("/standings", h.HandleStandings)
			r.Get("/teams/{playerID}/score", h.HandleTeamScore)
			r.Get("/cumulative", h.HandleCumulative)
			r.Get("/export.xlsx", h.HandleExport)
			r.Get("/chart.png", h.HandleChart)

			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RequireIdentity)
				r.Post("/join", h.HandleJoinLeague)
				r.Post("/draft/picks", h.HandleSubmitPick)
				r.Post("/trades", h.HandleTrade)
				r.Post("/drop-add", h.HandleDropAndAdd)
				r.Put("/weeks/{week}", h.HandleSubmitWeek)
				r.Post("/weeks/{week}/import", h.HandleImportWeek)
			})
		})
	})
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

type eventTypeView struct {
	Type        leaguetypes.EventType `json:"type"`
	Points      int                   `json:"points"`
	Description string                `json:"description"`
}

type createLeagueRequest struct {
	Name string `json:"name"`
}

type pickRequest struct {
	BakerID leaguetypes.BakerID `json:"bakerId"`
}

type tradeRequest struct {
	PlayerA leaguetypes.PlayerID `json:"playerA"`
	BakerA  leaguetypes.BakerID  `json:"bakerA"`
	PlayerB leaguetypes.PlayerID `json:"playerB"`
	BakerB  leaguetypes.BakerID  `json:"bakerB"`
}

type dropAddRequest struct {
	Drop leaguetypes.BakerID `json:"dropBakerId"`
	Add  leaguetypes.BakerID `json:"addBakerId"`
}

type weekRequest struct {
	Summary           string                    `json:"summary"`
	Events            []leaguetypes.WeeklyEvent `json:"events"`
	EliminatedBakerID leaguetypes.BakerID       `json:"eliminatedBakerId"`
}

type scoreResponse struct {
	Score int `json:"score"`
}

func (h *HTTPHandlers) HandleEventTypes(w http.ResponseWriter, r *http.Request) {
	out := make([]eventTypeView, 0, len(leaguetypes.AllEventTypes))
	for _, t := range leaguetypes.AllEventTypes {
		out = append(out, eventTypeView{Type: t, Points: t.Points(), Description: t.Description()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandlers) HandleListLeagues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListLeagues(r.Context()))
}

func (h *HTTPHandlers) HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	l, ok := h.league(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *HTTPHandlers) HandleCreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTPHandlers.HandleCreateLeague")
	defer span.End()

	var req createLeagueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	player, _ := authhandlers.PlayerFromContext(ctx)

	result, err := h.service.CreateLeague(ctx, req.Name, player)
	h.writeResult(w, r, "CreateLeague", result, err, http.StatusCreated)
}

func (h *HTTPHandlers) HandleJoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTPHandlers.HandleJoinLeague")
	defer span.End()

	player, _ := authhandlers.PlayerFromContext(ctx)
	result, err := h.service.JoinLeague(ctx, leagueID(r), player)
	h.writeResult(w, r, "JoinLeague", result, err, http.StatusOK)
}

func (h *HTTPHandlers) HandleDraftStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := h.service.DraftStatus(r.Context(), leagueID(r))
	if !ok {
		writeNotFound(w, leagueID(r))
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *HTTPHandlers) HandleSubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTPHandlers.HandleSubmitPick")
	defer span.End()

	var req pickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	player, _ := authhandlers.PlayerFromContext(ctx)

	result, err := h.service.SubmitPick(ctx, leagueID(r), player, req.BakerID)
	h.writeResult(w, r, "SubmitPick", result, err, http.StatusOK)
}

func (h *HTTPHandlers) HandleTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTPHandlers.HandleTrade")
	defer span.End()

	var req tradeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.Trade(ctx, leagueID(r), req.PlayerA, req.BakerA, req.PlayerB, req.BakerB)
	h.writeResult(w, r, "Trade", result, err, http.StatusOK)
}

func (h *HTTPHandlers) HandleDropAndAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTPHandlers.HandleDropAndAdd")
	defer span.End()

	var req dropAddRequest
	if !decodeBody(w, r, &req) {
		return
	}
	player, _ := authhandlers.PlayerFromContext(ctx)

	result, err := h.service.DropAndAdd(ctx, leagueID(r), player, req.Drop, req.Add)
	h.writeResult(w, r, "DropAndAdd", result, err, http.StatusOK)
}

func (h *HTTPHandlers) HandleSubmitWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTPHandlers.HandleSubmitWeek")
	defer span.End()

	week, ok := weekParam(w, r)
	if !ok {
		return
	}
	var req weekRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.SubmitWeek(ctx, leagueID(r), weeklylogdomain.Submission{
		Week:              week,
		Events:            req.Events,
		Summary:           req.Summary,
		EliminatedBakerID: req.EliminatedBakerID,
	})
	h.writeResult(w, r, "SubmitWeek", result, err, http.StatusOK)
}

// HandleImportWeek accepts a multipart "file" holding the week's events as
// CSV or XLSX. The summary and eliminated baker come from form fields.
func (h *HTTPHandlers) HandleImportWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "HTTPHandlers.HandleImportWeek")
	defer span.End()

	week, ok := weekParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file upload", "")
		return
	}
	defer file.Close()

	parser, err := h.parsers.GetParser(header.Filename)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, err.Error(), "")
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload", "")
		return
	}
	events, err := parser.Parse(data, header.Filename)
	if err != nil {
		h.logger.WarnContext(ctx, "Rejected weekly event upload",
			slog.String("file", header.Filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error(), "invalid_sheet")
		return
	}
	for _, e := range events {
		if e.Week != week {
			writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("sheet contains week %d, expected %d", e.Week, week), "invalid_week")
			return
		}
	}

	result, err := h.service.SubmitWeek(ctx, leagueID(r), weeklylogdomain.Submission{
		Week:              week,
		Events:            events,
		Summary:           r.FormValue("summary"),
		EliminatedBakerID: leaguetypes.BakerID(r.FormValue("eliminatedBakerId")),
	})
	h.writeResult(w, r, "ImportWeek", result, err, http.StatusOK)
}

func (h *HTTPHandlers) HandleBakers(w http.ResponseWriter, r *http.Request) {
	bakers := h.service.Bakers(r.Context(), leagueID(r))
	if bakers == nil {
		writeNotFound(w, leagueID(r))
		return
	}
	writeJSON(w, http.StatusOK, bakers)
}

func (h *HTTPHandlers) HandleBaker(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.league(w, r); !ok {
		return
	}
	bakerID := leaguetypes.BakerID(chi.URLParam(r, "bakerID"))
	baker, ok := h.service.GetBaker(r.Context(), leagueID(r), bakerID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("baker %s not found", bakerID), "baker_not_found")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		leaguetypes.Baker
		Score int `json:"score"`
	}{baker, h.service.BakerScore(r.Context(), leagueID(r), bakerID)})
}

func (h *HTTPHandlers) HandleBakerBreakdown(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.league(w, r); !ok {
		return
	}
	bakerID := leaguetypes.BakerID(chi.URLParam(r, "bakerID"))
	writeJSON(w, http.StatusOK, h.service.BakerBreakdown(r.Context(), leagueID(r), bakerID))
}

func (h *HTTPHandlers) HandleFreeAgents(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.league(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.FreeAgents(r.Context(), leagueID(r)))
}

func (h *HTTPHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	rows := h.service.Standings(r.Context(), leagueID(r))
	if rows == nil {
		writeNotFound(w, leagueID(r))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *HTTPHandlers) HandleTeamScore(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.league(w, r); !ok {
		return
	}
	playerID := leaguetypes.PlayerID(chi.URLParam(r, "playerID"))
	writeJSON(w, http.StatusOK, scoreResponse{Score: h.service.TeamScore(r.Context(), leagueID(r), playerID)})
}

func (h *HTTPHandlers) HandleCumulative(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.league(w, r); !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.CumulativeScores(r.Context(), leagueID(r)))
}

func (h *HTTPHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportWorkbook(r.Context(), leagueID(r))
	if !h.checkFileErr(w, r, "ExportWorkbook", err) {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(leagueID(r))+".xlsx"))
	_, _ = w.Write(data)
}

func (h *HTTPHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.StandingsChart(r.Context(), leagueID(r))
	if !h.checkFileErr(w, r, "StandingsChart", err) {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

// league resolves the {leagueID} path param, writing a 404 when absent.
func (h *HTTPHandlers) league(w http.ResponseWriter, r *http.Request) (leaguetypes.League, bool) {
	l, ok := h.service.GetLeague(r.Context(), leagueID(r))
	if !ok {
		writeNotFound(w, leagueID(r))
	}
	return l, ok
}

func (h *HTTPHandlers) checkFileErr(w http.ResponseWriter, r *http.Request, op string, err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, leagueservice.ErrLeagueNotFound) {
		writeNotFound(w, leagueID(r))
		return false
	}
	h.logger.ErrorContext(r.Context(), "Failed to render league file",
		slog.String("operation", op),
		slog.String("league_id", string(leagueID(r))),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, "internal error", "")
	return false
}

// writeResult renders a mutation outcome. Domain rejections map to 4xx with
// a stable reason; infrastructure errors are logged and hidden.
func (h *HTTPHandlers) writeResult(w http.ResponseWriter, r *http.Request, op string, result leagueservice.LeagueResult, err error, okStatus int) {
	if err != nil {
		h.logger.ErrorContext(r.Context(), "League operation failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if result.IsFailure() {
		failure := *result.Failure
		reason := leagueservice.RejectionReason(failure)
		writeError(w, statusForReason(reason), failure.Error(), reason)
		return
	}
	if result.Success == nil || *result.Success == nil {
		writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	writeJSON(w, okStatus, *result.Success)
}

func statusForReason(reason string) int {
	switch reason {
	case "league_not_found", "team_not_found":
		return http.StatusNotFound
	case "name_required", "player_required", "invalid_week", "unknown_event_type":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

func leagueID(r *http.Request) leaguetypes.LeagueID {
	return leaguetypes.LeagueID(chi.URLParam(r, "leagueID"))
}

func weekParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "week must be a number", "invalid_week")
		return 0, false
	}
	return week, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return false
	}
	return true
}

func writeNotFound(w http.ResponseWriter, id leaguetypes.LeagueID) {
	writeError(w, http.StatusNotFound, fmt.Sprintf("league %s not found", id), "league_not_found")
}

func writeError(w http.ResponseWriter, status int, msg, reason string) {
	writeJSON(w, status, errorResponse{Error: msg, Reason: reason})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
