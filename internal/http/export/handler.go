package export

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/dashboard"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	"github.com/MrJamesThe3rd/finboard/internal/http/request"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/logger"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

type Handler struct {
	svc *export.Service
	loc *time.Location
	now func() time.Time
}

func NewHandler(svc *export.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download streams the month's transactions as CSV, optionally narrowed to
// one account.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	month, year, err := request.MonthYear(r, h.loc, h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	period, err := dashboard.NewPeriod(month, year, h.loc)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	accountID, err := request.QueryID(r, "accountId")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter := transaction.ListFilter{
		AccountID: accountID,
		StartDate: &period.Start,
		EndDate:   new(period.End()),
	}

	// Buffered so a failure can still be reported as JSON.
	var buf bytes.Buffer

	if _, err := h.svc.WriteCSV(r.Context(), auth.FromContext(r.Context()).UserID, filter, &buf); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"transactions_%d-%02d.csv\"", year, month))

	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Msg("failed to write export")
	}
}
