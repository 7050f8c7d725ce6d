package ledger

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/controlfin/internal/finance/form"
	"github.com/MrJamesThe3rd/controlfin/internal/http/response"
	"github.com/MrJamesThe3rd/controlfin/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/banks", func(r chi.Router) {
		r.Get("/", h.listBanks)
		r.Post("/", h.createBank)
		r.Put("/{id}", h.updateBank)
		r.Delete("/{id}", h.deleteBank)
	})

	r.Route("/cards", func(r chi.Router) {
		r.Get("/", h.listCards)
		r.Post("/", h.createCard)
		r.Put("/{id}", h.updateCard)
		r.Delete("/{id}", h.deleteCard)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", h.listExpenses)
		r.Post("/", h.createExpense)
	})

	r.Route("/savings", func(r chi.Router) {
		r.Get("/", h.listSavings)
		r.Post("/", h.createSaving)
	})

	r.Route("/investments", func(r chi.Router) {
		r.Get("/", h.listInvestments)
		r.Post("/", h.createInvestment)
	})

	r.Route("/debts", func(r chi.Router) {
		r.Get("/", h.listDebts)
		r.Post("/", h.createDebt)
	})

	r.Route("/goals", func(r chi.Router) {
		r.Get("/", h.listGoals)
		r.Post("/", h.createGoal)
		r.Patch("/{id}/progress", h.updateGoalProgress)
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Put("/{index}", h.renameCategory)
		r.Delete("/{index}", h.deleteCategory)
	})

	r.Get("/summary", h.summary)
	r.Get("/health", h.health)
	r.Post("/reload", h.reload)
}

// create decodes a form, submits it and answers with the stored record.
func create[F, T any](w http.ResponseWriter, r *http.Request, add func(context.Context, F) (T, error)) {
	var f F
	if err := response.DecodeForm(r, &f); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	rec, err := add(r.Context(), f)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusCreated, rec)
}

func update[F, T any](w http.ResponseWriter, r *http.Request, edit func(context.Context, string, F) (T, error)) {
	var f F
	if err := response.DecodeForm(r, &f); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	rec, err := edit(r.Context(), chi.URLParam(r, "id"), f)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, rec)
}

func remove(w http.ResponseWriter, r *http.Request, del func(context.Context, string) error) {
	if err := del(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listBanks(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, nonNil(h.svc.Snapshot().Banks))
}

func (h *Handler) createBank(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.AddBank)
}

func (h *Handler) updateBank(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.EditBank)
}

func (h *Handler) deleteBank(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.RemoveBank)
}

func (h *Handler) listCards(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, nonNil(h.svc.Snapshot().Cards))
}

func (h *Handler) createCard(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.AddCard)
}

func (h *Handler) updateCard(w http.ResponseWriter, r *http.Request) {
	update(w, r, h.svc.EditCard)
}

func (h *Handler) deleteCard(w http.ResponseWriter, r *http.Request) {
	remove(w, r, h.svc.RemoveCard)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, nonNil(h.svc.Snapshot().Expenses))
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.AddExpense)
}

func (h *Handler) listSavings(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, nonNil(h.svc.Snapshot().Savings))
}

func (h *Handler) createSaving(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.AddSaving)
}

func (h *Handler) listInvestments(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, nonNil(h.svc.Snapshot().Investments))
}

func (h *Handler) createInvestment(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.AddInvestment)
}

func (h *Handler) listDebts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, nonNil(h.svc.Snapshot().Debts))
}

func (h *Handler) createDebt(w http.ResponseWriter, r *http.Request) {
	create(w, r, h.svc.AddDebt)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, toSummaryResponse(h.svc.Summary()))
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(r.Context()); err != nil {
		response.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}

	return items
}

func (h *Handler) listGoals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("month") == "" && q.Get("year") == "" {
		response.JSON(w, r, http.StatusOK, toGoalResponses(h.svc.Snapshot().Goals))
		return
	}

	state := h.svc.Snapshot()
	month, year := state.GoalMonth, state.GoalYear

	var err error

	if s := q.Get("month"); s != "" {
		if month, err = strconv.Atoi(s); err != nil {
			response.BadRequest(w, r, "invalid month")
			return
		}
	}

	if s := q.Get("year"); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			response.BadRequest(w, r, "invalid year")
			return
		}
	}

	goals, err := h.svc.LoadGoals(r.Context(), month, year)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toGoalResponses(goals))
}

func (h *Handler) createGoal(w http.ResponseWriter, r *http.Request) {
	create(w, r, func(ctx context.Context, f form.GoalForm) (goalResponse, error) {
		g, err := h.svc.AddGoal(ctx, f)
		if err != nil {
			return goalResponse{}, err
		}

		return toGoalResponse(g), nil
	})
}

type progressRequest struct {
	Progress string `json:"progreso"`
}

func (h *Handler) updateGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := response.DecodeForm(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	g, err := h.svc.UpdateGoalProgress(r.Context(), chi.URLParam(r, "id"), req.Progress)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toGoalResponse(g))
}

type categoryRequest struct {
	Name string `json:"nombre"`
}

type categoryResponse struct {
	Index int    `json:"indice"`
	Name  string `json:"nombre"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	names := h.svc.Snapshot().Categories

	resp := make([]categoryResponse, len(names))
	for i, n := range names {
		resp[i] = categoryResponse{Index: i, Name: n}
	}

	response.JSON(w, r, http.StatusOK, resp)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := response.DecodeForm(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	name, err := h.svc.AddCategory(r.Context(), req.Name)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusCreated, categoryResponse{
		Index: len(h.svc.Snapshot().Categories) - 1,
		Name:  name,
	})
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, r, "invalid index")
		return
	}

	var req categoryRequest
	if err := response.DecodeForm(r, &req); err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	name, err := h.svc.RenameCategory(r.Context(), index, req.Name)
	if err != nil {
		response.HandleError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, categoryResponse{Index: index, Name: name})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.BadRequest(w, r, "invalid index")
		return
	}

	if _, err := h.svc.RemoveCategory(r.Context(), index); err != nil {
		response.HandleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
