package transaction

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/request"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/subscription"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	svc  *transaction.Service
	subs *subscription.Service
	loc  *time.Location
	now  func() time.Time
}

func NewHandler(svc *transaction.Service, subs *subscription.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, subs: subs, loc: loc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
}

type upsertRequest struct {
	Name              string                    `json:"name"`
	Amount            decimal.Decimal           `json:"amount"`
	Type              transaction.Type          `json:"type"`
	Category          transaction.Category      `json:"category"`
	PaymentMethod     transaction.PaymentMethod `json:"paymentMethod"`
	Date              string                    `json:"date"`
	AccountID         uuid.UUID                 `json:"accountId"`
	TransferAccountID *uuid.UUID                `json:"transferAccountId,omitempty"`
	Status            transaction.Status        `json:"status"`

	FulfillmentType         transaction.FulfillmentType `json:"fulfillmentType,omitempty"`
	InstallmentIndex        *int                        `json:"installmentIndex,omitempty"`
	InstallmentCount        *int                        `json:"installmentCount,omitempty"`
	InstallmentValueIsTotal bool                        `json:"installmentValueIsTotal,omitempty"`

	RecurrenceType         transaction.RecurrenceType `json:"recurrenceType,omitempty"`
	RecurrenceInterval     *int                       `json:"recurrenceInterval,omitempty"`
	RecurrenceEndsAt       *string                    `json:"recurrenceEndsAt,omitempty"`
	RecurrenceSkipWeekdays []int                      `json:"recurrenceSkipWeekdays,omitempty"`
}

func (h *Handler) params(req upsertRequest) (transaction.UpsertParams, error) {
	p := transaction.UpsertParams{
		Name:                    req.Name,
		Amount:                  req.Amount,
		Type:                    req.Type,
		Category:                req.Category,
		PaymentMethod:           req.PaymentMethod,
		AccountID:               req.AccountID,
		TransferAccountID:       req.TransferAccountID,
		Status:                  req.Status,
		FulfillmentType:         req.FulfillmentType,
		InstallmentIndex:        req.InstallmentIndex,
		InstallmentCount:        req.InstallmentCount,
		InstallmentValueIsTotal: req.InstallmentValueIsTotal,
		RecurrenceType:          req.RecurrenceType,
		RecurrenceInterval:      req.RecurrenceInterval,
	}

	if req.Date != "" {
		d, err := request.Date("date", req.Date, h.loc)
		if err != nil {
			return p, err
		}

		p.Date = d
	}

	endsAt, err := request.OptionalDate("recurrenceEndsAt", req.RecurrenceEndsAt, h.loc)
	if err != nil {
		return p, err
	}

	p.RecurrenceEndsAt = endsAt

	for _, d := range req.RecurrenceSkipWeekdays {
		p.RecurrenceSkipWeekdays = append(p.RecurrenceSkipWeekdays, time.Weekday(d))
	}

	return p, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())

	var req upsertRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params, err := h.params(req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.subs.RequireTransactionSlot(r.Context(), id.UserID, id.Plan); err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Upsert(r.Context(), id.UserID, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, ToResponse(tx))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	txID, err := request.URLID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req upsertRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params, err := h.params(req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	params.ID = &txID

	tx, err := h.svc.Upsert(r.Context(), auth.FromContext(r.Context()).UserID, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	var err error

	if filter.AccountID, err = request.QueryID(r, "accountId"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if filter.ParentID, err = request.QueryID(r, "parentId"); err != nil {
		respond.Error(w, r, err)
		return
	}

	if s := q.Get("status"); s != "" {
		status := transaction.Status(s)
		if !status.Valid() {
			respond.BadRequest(w, r, "status", "unknown status %q", s)
			return
		}

		filter.Status = &status
	}

	if s := q.Get("startDate"); s != "" {
		d, err := request.Date("startDate", s, h.loc)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.StartDate = &d
	}

	// endDate names a whole day.
	if s := q.Get("endDate"); s != "" {
		d, err := request.Date("endDate", s, h.loc)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.EndDate = new(d.AddDate(0, 0, 1).Add(-time.Millisecond))
	}

	txs, err := h.svc.List(r.Context(), auth.FromContext(r.Context()).UserID, filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	txID, err := request.URLID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	tx, err := h.svc.Get(r.Context(), auth.FromContext(r.Context()).UserID, txID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	txID, err := request.URLID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	scope := transaction.DeleteCurrent
	if s := r.URL.Query().Get("scope"); s != "" {
		scope = transaction.DeleteScope(s)
	}

	if err := h.svc.Delete(r.Context(), auth.FromContext(r.Context()).UserID, txID, scope); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status         transaction.Status `json:"status"`
	UseCurrentDate bool               `json:"useCurrentDate,omitempty"`
	ExecutedAt     *string            `json:"executedAt,omitempty"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	txID, err := request.URLID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	executedAt, err := request.OptionalDate("executedAt", req.ExecutedAt, h.loc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if req.UseCurrentDate {
		if executedAt != nil {
			respond.Error(w, r, apperror.Invalid("executedAt", "cannot be combined with useCurrentDate"))
			return
		}

		executedAt = new(h.now().In(h.loc))
	}

	tx, err := h.svc.UpdateStatus(r.Context(), auth.FromContext(r.Context()).UserID, transaction.UpdateStatusParams{
		ID:         txID,
		Status:     req.Status,
		ExecutedAt: executedAt,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, ToResponse(tx))
}
