package importlegacy

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/controlfin/internal/http/response"
	"github.com/MrJamesThe3rd/controlfin/internal/importer"
)

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importSnapshot)
	r.Post("/expenses", h.importExpenses)
}

func (h *Handler) importSnapshot(w http.ResponseWriter, r *http.Request) {
	h.importFile(w, r, h.importSvc.Import)
}

func (h *Handler) importExpenses(w http.ResponseWriter, r *http.Request) {
	h.importFile(w, r, h.importSvc.ImportExpenses)
}

func (h *Handler) importFile(
	w http.ResponseWriter,
	r *http.Request,
	run func(context.Context, io.Reader) (*importer.Result, error),
) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.BadRequest(w, r, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, r, "file field is required")
		return
	}
	defer file.Close()

	result, err := run(r.Context(), file)
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	response.JSON(w, r, http.StatusOK, result)
}
