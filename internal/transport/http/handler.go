// Package http exposes the quiz over JSON endpoints and a websocket
// leaderboard feed.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"truthle-quiz-service/internal/app"
	"truthle-quiz-service/internal/domain"
	"truthle-quiz-service/internal/economy"
)

// Handler wires the app services into the HTTP mux.
type Handler struct {
	daily    app.DailyQuizRepository
	attempts *app.AttemptService
	postback *app.PostbackService
	identity app.IdentityProvider
	boards   app.BoardRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewHandler(daily app.DailyQuizRepository, attempts *app.AttemptService, postback *app.PostbackService, identity app.IdentityProvider, boards app.BoardRepository, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		daily:    daily,
		attempts: attempts,
		postback: postback,
		identity: identity,
		boards:   boards,
		log:      log,
		now:      time.Now,
	}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/identity", h.handleIdentity)
	mux.HandleFunc("/api/daily", h.handleDaily)
	mux.HandleFunc("/api/daily/status", h.handleStatus)
	mux.HandleFunc("/api/attempts", h.handleRecord)
	mux.HandleFunc("/api/shop", h.handleShop)
	mux.HandleFunc("/postback", h.handlePostback)
	mux.HandleFunc("/ws/leaderboard", h.ServeBoardWS)
}

func (h *Handler) date(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return h.now().UTC().Format("2006-01-02")
}

func (h *Handler) handleIdentity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	token, err := h.identity.Ensure(r.Context(), r.URL.Query().Get("identity"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "identity unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"identity": token})
}

func (h *Handler) handleDaily(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.daily.GetDaily(r.Context(), h.date(r))
	if err != nil {
		h.log.Error("daily quiz build failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "daily quiz unavailable")
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("identity")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing identity")
		return
	}
	attempt, played, err := h.attempts.Status(r.Context(), identity, h.date(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "status unavailable")
		return
	}
	resp := map[string]any{"played": played}
	if played {
		resp["attempt"] = attempt
	}
	writeJSON(w, http.StatusOK, resp)
}

type recordRequest struct {
	Identity string    `json:"identity"`
	Date     string    `json:"date"`
	Correct  []bool    `json:"correct"`
	Times    []float64 `json:"times"`
	Shared   bool      `json:"shared"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Date == "" {
		req.Date = h.now().UTC().Format("2006-01-02")
	}
	result, err := h.attempts.Record(r.Context(), req.Identity, req.Date, req.Correct, req.Times, req.Shared)
	if errors.Is(err, domain.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, "invalid attempt")
		return
	}
	if err != nil {
		h.log.Error("record attempt failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "record failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleShop(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"items": economy.Catalog()}
	if identity := r.URL.Query().Get("identity"); identity != "" {
		if balance, err := h.attempts.Balance(r.Context(), identity); err == nil {
			resp["balance"] = balance
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type postbackRequest struct {
	Identity  string `json:"identity"`
	OfferID   string `json:"offerId"`
	Amount    int64  `json:"amount"`
	Signature string `json:"signature"`
}

func (h *Handler) handlePostback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req postbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	balance, err := h.postback.Credit(r.Context(), req.Identity, req.OfferID, req.Amount, req.Signature)
	switch {
	case errors.Is(err, domain.ErrBadSignature):
		writeError(w, http.StatusForbidden, "signature mismatch")
	case errors.Is(err, domain.ErrDuplicatePostback):
		// duplicates acknowledge OK so the affiliate network stops retrying
		writeJSON(w, http.StatusOK, map[string]any{"status": "duplicate"})
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid postback")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "credit failed")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"status": "credited", "balance": balance})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
