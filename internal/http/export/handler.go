package export

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/controlfin/internal/export"
	"github.com/MrJamesThe3rd/controlfin/internal/logging"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.snapshot)
	r.Get("/expenses.csv", h.expenses)
	r.Get("/download", h.download)
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) {
	attachment(w, "application/json", h.svc.FileName(".json"))

	if err := h.svc.WriteJSON(w); err != nil {
		logging.FromContext(r.Context()).Error("failed to write snapshot", "error", err)
	}
}

func (h *Handler) expenses(w http.ResponseWriter, r *http.Request) {
	attachment(w, "text/csv; charset=utf-8", h.svc.FileName(".csv"))

	if err := h.svc.WriteExpensesCSV(w); err != nil {
		logging.FromContext(r.Context()).Error("failed to write expenses", "error", err)
	}
}

// download bundles the snapshot and the expense sheet in one zip file.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	attachment(w, "application/zip", h.svc.FileName(".zip"))

	zipWriter := zip.NewWriter(w)

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{h.svc.FileName(".json"), h.svc.WriteJSON},
		{h.svc.FileName(".csv"), h.svc.WriteExpensesCSV},
	}

	log := logging.FromContext(r.Context())

	for _, f := range files {
		zf, err := zipWriter.Create(f.name)
		if err != nil {
			log.Error("failed to create zip entry", slog.String("file", f.name), slog.Any("error", err))
			return
		}

		if err := f.write(zf); err != nil {
			log.Error("failed to write zip entry", slog.String("file", f.name), slog.Any("error", err))
			return
		}
	}

	if err := zipWriter.Close(); err != nil {
		log.Error("failed to create zip", "error", err)
	}
}
