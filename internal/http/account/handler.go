package account

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/account"
	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/request"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
)

type Handler struct {
	svc *account.Service
}

func NewHandler(svc *account.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type accountResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Color                *string    `json:"color,omitempty"`
	IncludeInBalance     bool       `json:"includeInBalance"`
	IncludeInCashFlow    bool       `json:"includeInCashFlow"`
	IncludeInInvestments bool       `json:"includeInInvestments"`
	IncludeInAiReports   bool       `json:"includeInAiReports"`
	IncludeInOverview    bool       `json:"includeInOverview"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

func toResponse(a *account.Account) accountResponse {
	return accountResponse{
		ID:                   a.ID,
		Name:                 a.Name,
		Color:                a.Color,
		IncludeInBalance:     a.IncludeInBalance,
		IncludeInCashFlow:    a.IncludeInCashFlow,
		IncludeInInvestments: a.IncludeInInvestments,
		IncludeInAiReports:   a.IncludeInAiReports,
		IncludeInOverview:    a.IncludeInOverview,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}

// Omitted flags default to true.
type saveRequest struct {
	Name                 string  `json:"name"`
	Color                *string `json:"color,omitempty"`
	IncludeInBalance     *bool   `json:"includeInBalance,omitempty"`
	IncludeInCashFlow    *bool   `json:"includeInCashFlow,omitempty"`
	IncludeInInvestments *bool   `json:"includeInInvestments,omitempty"`
	IncludeInAiReports   *bool   `json:"includeInAiReports,omitempty"`
	IncludeInOverview    *bool   `json:"includeInOverview,omitempty"`
}

func (req saveRequest) params(id *uuid.UUID) account.SaveParams {
	return account.SaveParams{
		ID:                   id,
		Name:                 req.Name,
		Color:                req.Color,
		IncludeInBalance:     req.IncludeInBalance,
		IncludeInCashFlow:    req.IncludeInCashFlow,
		IncludeInInvestments: req.IncludeInInvestments,
		IncludeInAiReports:   req.IncludeInAiReports,
		IncludeInOverview:    req.IncludeInOverview,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.List(r.Context(), auth.FromContext(r.Context()).UserID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]accountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = toResponse(a)
	}

	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, nil, http.StatusCreated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := request.URLID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.save(w, r, &id, http.StatusOK)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, id *uuid.UUID, status int) {
	var req saveRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	a, err := h.svc.Save(r.Context(), auth.FromContext(r.Context()).UserID, req.params(id))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, status, toResponse(a))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.URLID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), auth.FromContext(r.Context()).UserID, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
