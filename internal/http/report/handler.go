package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/request"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	"github.com/MrJamesThe3rd/finboard/internal/report"
)

type Handler struct {
	svc *report.Service
	loc *time.Location
	now func() time.Time
}

func NewHandler(svc *report.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/input", h.input)
}

type inputResponse struct {
	Month        int      `json:"month"`
	Year         int      `json:"year"`
	Empty        bool     `json:"empty"`
	SystemPrompt string   `json:"systemPrompt"`
	Prompt       string   `json:"prompt"`
	Lines        []string `json:"lines"`
}

func (h *Handler) input(w http.ResponseWriter, r *http.Request) {
	month, year, err := request.MonthYear(r, h.loc, h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	id := auth.FromContext(r.Context())

	in, err := h.svc.Build(r.Context(), id.UserID, id.Plan, month, year)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusOK, inputResponse{
		Month:        in.Period.Month(),
		Year:         in.Period.Year(),
		Empty:        in.Empty(),
		SystemPrompt: in.SystemPrompt,
		Prompt:       in.Prompt,
		Lines:        in.Lines,
	})
}
