package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"techlingo-service/internal/app"
	"techlingo-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// TermCatalog is the read-only term surface the API exposes directly.
type TermCatalog interface {
	FilterTerms(ctx context.Context, category, difficulty string) ([]domain.Term, error)
	TermByID(ctx context.Context, id int64) (*domain.Term, error)
	Categories(ctx context.Context) ([]string, error)
	SearchTerms(ctx context.Context, query string) ([]domain.Term, error)
}

// Handler wires the REST routes to the application services.
type Handler struct {
	auth    *app.AuthService
	game    *app.GameService
	stats   *app.StatsService
	catalog TermCatalog
}

func NewHandler(auth *app.AuthService, game *app.GameService, stats *app.StatsService, catalog TermCatalog) *Handler {
	return &Handler{auth: auth, game: game, stats: stats, catalog: catalog}
}

// Router builds the chi route tree.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/auth/me", h.me)
		r.Post("/auth/logout", h.logout)

		r.Post("/game/start", h.startGame)
		r.Get("/game/history", h.gameHistory)
		r.Get("/game/{sessionID}/question", h.nextQuestion)
		r.Post("/game/{sessionID}/answer", h.submitAnswer)
		r.Post("/game/{sessionID}/end", h.endGame)

		r.Get("/progress", h.progress)
	})

	r.Get("/terms", h.listTerms)
	r.Get("/terms/categories", h.categories)
	r.Get("/terms/search", h.searchTerms)
	r.Get("/terms/{termID}", h.getTerm)

	r.Get("/progress/leaderboard", h.leaderboard)

	return r
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || len(req.Username) < 3 || len(req.Username) > 50 || len(req.Password) < 6 {
		writeBadRequest(w, "email, username (3-50 chars), and password (min 6 chars) are required")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer", User: user})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	// Tokens are stateless; the client discards its copy.
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (h *Handler) listTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := h.catalog.FilterTerms(r.Context(), r.URL.Query().Get("category"), r.URL.Query().Get("difficulty"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) searchTerms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeBadRequest(w, "query parameter q is required")
		return
	}
	terms, err := h.catalog.SearchTerms(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}

func (h *Handler) getTerm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "termID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid term id")
		return
	}
	term, err := h.catalog.TermByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, term)
}

type startGameRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

func (h *Handler) startGame(w http.ResponseWriter, r *http.Request) {
	var req startGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "invalid request body")
			return
		}
	}

	session, err := h.game.StartSession(r.Context(), userFrom(r.Context()).ID, req.Category, req.Difficulty)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFrom(w, r)
	if !ok {
		return
	}
	question, err := h.game.NextQuestion(r.Context(), sessionID, userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, question)
}

type submitAnswerRequest struct {
	TermID int64  `json:"term_id"`
	Answer string `json:"answer"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFrom(w, r)
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.game.SubmitAnswer(r.Context(), sessionID, userFrom(r.Context()).ID, req.TermID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) endGame(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDFrom(w, r)
	if !ok {
		return
	}
	session, err := h.game.EndSession(r.Context(), sessionID, userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) gameHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.game.SessionHistory(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.ProgressSummary(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeBadRequest(w, "invalid limit")
			return
		}
		limit = parsed
	}
	entries, err := h.stats.TopUsers(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func sessionIDFrom(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "sessionID"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid session id")
		return 0, false
	}
	return id, true
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Detail: detail})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrTermNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionCompleted),
		errors.Is(err, domain.ErrInsufficientTerms),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		writeJSON(w, status, errorResponse{Detail: "internal server error"})
		return
	}
	writeJSON(w, status, errorResponse{Detail: err.Error()})
}
