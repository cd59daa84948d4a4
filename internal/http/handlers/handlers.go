package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/autosave"
	"quizbowl-match-service/internal/domain/match"
	"quizbowl-match-service/internal/domain/roster"
	"quizbowl-match-service/internal/logging"
)

// Handler wires HTTP routes to the match service.
type Handler struct {
	svc      *matches.Service
	logger   *slog.Logger
	statusFn func() autosave.Status
}

// NewHandler constructs a Handler with defaults.
func NewHandler(svc *matches.Service, logger *slog.Logger, statusFn func() autosave.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

type matchSummary struct {
	ID        string      `json:"id"`
	Teams     []string    `json:"teams"`
	Cycles    int         `json:"cycles"`
	Score     match.Score `json:"score"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type matchDetail struct {
	ID        string      `json:"id"`
	Teams     []string    `json:"teams"`
	Score     match.Score `json:"score"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Game      *match.Game `json:"game"`
}

type scoreView struct {
	ID          string        `json:"id"`
	Teams       []string      `json:"teams"`
	Score       match.Score   `json:"score"`
	CycleScores []match.Score `json:"cycleScores"`
}

type cycleView struct {
	ID          string               `json:"id"`
	Cycle       int                  `json:"cycle"`
	TossupIndex int                  `json:"tossupIndex"`
	BonusIndex  *int                 `json:"bonusIndex"`
	Buzzes      []match.TossupAnswer `json:"buzzes"`
	Events      []string             `json:"events"`
	ScoreChange match.Score          `json:"scoreChange"`
}

type rosterView struct {
	ID      string          `json:"id"`
	Team    string          `json:"team"`
	Cycle   int             `json:"cycle"`
	Players []roster.Player `json:"players"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/health":
		h.Health(w, r)
	case r.URL.Path == "/ready":
		h.Ready(w, r)
	case r.URL.Path == "/matches":
		h.MatchList(w, r)
	case strings.HasPrefix(r.URL.Path, "/matches/"):
		h.MatchSubtree(w, r)
	default:
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
// Readiness tracks the autosave loop: a service that cannot archive
// matches should not take new ones.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if h.statusFn().IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := h.statusFn().LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// MatchList returns a summary of every registered match.
func (h *Handler) MatchList(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	records := h.svc.Matches()
	summaries := make([]matchSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, summarize(record))
	}
	writeJSON(w, http.StatusOK, summaries, h.logger)
}

// MatchSubtree dispatches /matches/{id} and its sub-resources.
func (h *Handler) MatchSubtree(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/matches/"), "/")
	parts := strings.Split(rest, "/")
	id, err := url.PathUnescape(parts[0])
	if err != nil || id == "" {
		writeError(w, r, http.StatusBadRequest, "invalid match id", h.logger)
		return
	}

	record, ok := h.svc.MatchByID(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "match not found", h.logger)
		return
	}

	switch {
	case len(parts) == 1:
		h.matchDetail(w, r, record)
	case len(parts) == 2 && parts[1] == "score":
		h.matchScore(w, r, record)
	case len(parts) == 2 && parts[1] == "roster":
		h.matchRoster(w, r, record)
	case len(parts) == 3 && parts[1] == "cycles":
		h.cycleDetail(w, r, record, parts[2])
	default:
		writeError(w, r, http.StatusNotFound, "not found", h.logger)
	}
}

func (h *Handler) matchDetail(w http.ResponseWriter, r *http.Request, record matches.MatchRecord) {
	score, err := record.Game.FinalScore()
	if err != nil {
		logging.Error(h.logger, "final score unavailable", err, slog.String(logging.FieldMatchID, record.ID))
		writeError(w, r, http.StatusInternalServerError, "score unavailable", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, matchDetail{
		ID:        record.ID,
		Teams:     record.Game.TeamNames(),
		Score:     score,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
		Game:      record.Game,
	}, h.logger)
}

func (h *Handler) matchScore(w http.ResponseWriter, r *http.Request, record matches.MatchRecord) {
	cycleScores, err := record.Game.Scores()
	if err != nil {
		logging.Error(h.logger, "score history unavailable", err, slog.String(logging.FieldMatchID, record.ID))
		writeError(w, r, http.StatusInternalServerError, "score unavailable", h.logger)
		return
	}
	score := match.Score{}
	if len(cycleScores) > 0 {
		score = cycleScores[len(cycleScores)-1]
	}
	if cycleScores == nil {
		cycleScores = []match.Score{}
	}
	writeJSON(w, http.StatusOK, scoreView{
		ID:          record.ID,
		Teams:       record.Game.TeamNames(),
		Score:       score,
		CycleScores: cycleScores,
	}, h.logger)
}

func (h *Handler) cycleDetail(w http.ResponseWriter, r *http.Request, record matches.MatchRecord, rawIndex string) {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid cycle index", h.logger)
		return
	}
	cycle := record.Game.Cycle(index)
	if cycle == nil {
		writeError(w, r, http.StatusNotFound, "cycle not found", h.logger)
		return
	}
	change, err := record.Game.ScoreChange(index)
	if err != nil {
		logging.Error(h.logger, "cycle score unavailable", err,
			slog.String(logging.FieldMatchID, record.ID),
			slog.Int(logging.FieldCycle, index),
		)
		writeError(w, r, http.StatusInternalServerError, "score unavailable", h.logger)
		return
	}

	view := cycleView{
		ID:          record.ID,
		Cycle:       index,
		TossupIndex: record.Game.TossupIndex(index),
		Buzzes:      cycle.OrderedBuzzes(),
		Events:      cycle.Events(),
		ScoreChange: change,
	}
	if bonusIndex, ok := record.Game.BonusIndex(index); ok {
		view.BonusIndex = &bonusIndex
	}
	if view.Buzzes == nil {
		view.Buzzes = []match.TossupAnswer{}
	}
	if view.Events == nil {
		view.Events = []string{}
	}
	writeJSON(w, http.StatusOK, view, h.logger)
}

// matchRoster resolves ?team= fuzzily against the match's team names and
// returns the players active in the requested cycle (defaults to the
// latest cycle).
func (h *Handler) matchRoster(w http.ResponseWriter, r *http.Request, record matches.MatchRecord) {
	logger := loggerFromContext(r, h.logger)

	query := strings.TrimSpace(r.URL.Query().Get("team"))
	if query == "" {
		writeError(w, r, http.StatusBadRequest, "team query parameter required", logger)
		return
	}
	team, ok := roster.ClosestTeam(record.Game.TeamNames(), query)
	if !ok {
		writeError(w, r, http.StatusNotFound, "team not found", logger)
		return
	}

	cycleIndex := len(record.Game.Cycles) - 1
	if raw := r.URL.Query().Get("cycle"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid cycle index", logger)
			return
		}
		cycleIndex = parsed
	}

	active, err := record.Game.ActivePlayers(team, cycleIndex)
	if err != nil {
		logging.Error(logger, "active roster unavailable", err,
			slog.String(logging.FieldMatchID, record.ID),
			slog.String(logging.FieldTeam, team),
			slog.Int(logging.FieldCycle, cycleIndex),
		)
		writeError(w, r, http.StatusInternalServerError, "roster unavailable", logger)
		return
	}

	players := make([]roster.Player, 0, len(active))
	for p := range active {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Name < players[j].Name })

	writeJSON(w, http.StatusOK, rosterView{
		ID:      record.ID,
		Team:    team,
		Cycle:   cycleIndex,
		Players: players,
	}, h.logger)
}

func summarize(record matches.MatchRecord) matchSummary {
	score, err := record.Game.FinalScore()
	if err != nil {
		score = match.Score{}
	}
	return matchSummary{
		ID:        record.ID,
		Teams:     record.Game.TeamNames(),
		Cycles:    len(record.Game.Cycles),
		Score:     score,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
