package importcsv

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/request"
	"github.com/MrJamesThe3rd/finboard/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
	loc       *time.Location
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service, loc *time.Location) *Handler {
	return &Handler{importSvc: importSvc, txSvc: txSvc, loc: loc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type rowDTO struct {
	Name           string           `json:"name"`
	RawDescription string           `json:"rawDescription"`
	Amount         decimal.Decimal  `json:"amount"`
	Type           transaction.Type `json:"type"`
	Date           string           `json:"date"`
}

type conflictDTO struct {
	Incoming rowDTO          `json:"incoming"`
	Existing txhttp.Response `json:"existing"`
}

type importSuccessResponse struct {
	Imported     int               `json:"imported"`
	Transactions []txhttp.Response `json:"transactions"`
}

type importConflictResponse struct {
	New       []rowDTO      `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type confirmRequest struct {
	AccountID uuid.UUID `json:"accountId"`
	Rows      []rowDTO  `json:"rows"`
}

// importCSV parses an uploaded statement. Rows already present in the account
// come back as conflicts with 409 and nothing is written.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.BadRequest(w, r, "file", "failed to parse form: %v", err)
		return
	}

	bank := importer.Bank(r.FormValue("bank"))
	if bank == "" {
		respond.BadRequest(w, r, "bank", "is required")
		return
	}

	accountID, err := uuid.Parse(r.FormValue("account_id"))
	if err != nil {
		respond.BadRequest(w, r, "account_id", "must be a UUID")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.BadRequest(w, r, "file", "is required")
		return
	}
	defer file.Close()

	userID := auth.FromContext(r.Context()).UserID

	rows, err := h.importSvc.Parse(r.Context(), userID, bank, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result, err := h.txSvc.ImportBatch(r.Context(), userID, accountID, rows)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]rowDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}

		for _, p := range result.New {
			resp.New = append(resp.New, h.toRowDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: h.toRowDTO(c.Incoming),
				Existing: txhttp.ToResponse(c.Existing),
			})
		}

		respond.JSON(w, r, http.StatusConflict, resp)

		return
	}

	respond.JSON(w, r, http.StatusCreated, toSuccessResponse(result.Imported))
}

// confirmImport writes the rows the user kept after reviewing conflicts.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	params := make([]transaction.ImportParams, 0, len(req.Rows))

	for _, row := range req.Rows {
		date, err := request.Date("date", row.Date, h.loc)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		params = append(params, transaction.ImportParams{
			Name:           row.Name,
			RawDescription: row.RawDescription,
			Amount:         row.Amount,
			Type:           row.Type,
			Date:           date,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), auth.FromContext(r.Context()).UserID, req.AccountID, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, r, http.StatusCreated, toSuccessResponse(txs))
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: txhttp.ToResponseList(txs),
	}
}

func (h *Handler) toRowDTO(p transaction.ImportParams) rowDTO {
	return rowDTO{
		Name:           p.Name,
		RawDescription: p.RawDescription,
		Amount:         p.Amount,
		Type:           p.Type,
		Date:           p.Date.In(h.loc).Format(time.DateOnly),
	}
}
