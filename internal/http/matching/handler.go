package matching

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/request"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription       string `json:"rawDescription"`
	PreferredDescription string `json:"preferredDescription"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("rawDescription")
	if raw == "" {
		respond.BadRequest(w, r, "rawDescription", "is required")
		return
	}

	preferred, err := h.svc.Suggest(r.Context(), auth.FromContext(r.Context()).UserID, raw)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, suggestResponse{
		RawDescription:       raw,
		PreferredDescription: preferred,
	})
}

type learnRequest struct {
	RawPattern           string `json:"rawPattern"`
	PreferredDescription string `json:"preferredDescription"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	err := h.svc.Learn(r.Context(), auth.FromContext(r.Context()).UserID, req.RawPattern, req.PreferredDescription)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
