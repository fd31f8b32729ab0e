package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/kars-hq/kars/modules/demos/domain/aggregates/demo"
	"github.com/kars-hq/kars/modules/demos/presentation/viewmodels"
	"github.com/kars-hq/kars/modules/demos/services"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/httpapi"
	"github.com/kars-hq/kars/pkg/middleware"
	"github.com/kars-hq/kars/pkg/shared"
	"github.com/kars-hq/kars/pkg/workflow"
)

type DemosController struct {
	app      application.Application
	demos    *services.DemoService
	basePath string
}

func NewDemosController(app application.Application) application.Controller {
	return &DemosController{
		app:      app,
		demos:    app.Service(services.DemoService{}).(*services.DemoService),
		basePath: "/demos",
	}
}

func (c *DemosController) Key() string {
	return c.basePath
}

func (c *DemosController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	writeRouter.HandleFunc("/{id:[0-9]+}/status", c.UpdateStatus).Methods(http.MethodPatch)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *DemosController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	params := &demo.FindParams{
		Status: workflow.Status(r.URL.Query().Get("status")),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if userID, err := shared.ParseQueryID(r, "userId"); err == nil {
		params.UserID = userID
	}
	entities, total, err := c.demos.GetPaginated(r.Context(), params)
	if err != nil {
		writeDemoError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data":  viewmodels.DemosFromEntities(entities),
		"total": total,
	})
}

func (c *DemosController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := c.demos.GetByID(r.Context(), id)
	if err != nil {
		writeDemoError(w, err)
		return
	}
	vm := viewmodels.DemoFromEntity(entity)
	if actor, err := composables.UseActor(r.Context()); err == nil {
		vm = viewmodels.DemoForActor(entity, actor)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": vm})
}

func (c *DemosController) Create(w http.ResponseWriter, r *http.Request) {
	var dto demo.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	created, err := c.demos.Create(r.Context(), &dto)
	if err != nil {
		writeDemoError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"data": viewmodels.DemoFromEntity(created)})
}

func (c *DemosController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	var dto demo.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	updated, err := c.demos.Update(r.Context(), id, &dto)
	if err != nil {
		writeDemoError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": viewmodels.DemoFromEntity(updated)})
}

func (c *DemosController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	var dto demo.UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	updated, outcome, err := c.demos.UpdateStatus(r.Context(), id, dto.Target())
	if err != nil {
		writeDemoError(w, err)
		return
	}
	vm := viewmodels.DemoFromEntity(updated)
	if actor, err := composables.UseActor(r.Context()); err == nil {
		vm = viewmodels.DemoForActor(updated, actor)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data":         vm,
		"notification": outcome.Notification,
	})
}

func (c *DemosController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := c.demos.Delete(r.Context(), id); err != nil {
		writeDemoError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func writeDemoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, demo.ErrNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, workflow.ErrInvalidTransition),
		errors.Is(err, workflow.ErrUnknownStatus),
		errors.Is(err, services.ErrNotEditable):
		_ = httpapi.WriteError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, workflow.ErrPermissionDenied),
		errors.Is(err, workflow.ErrSelfApproval),
		errors.Is(err, authz.ErrForbidden):
		_ = httpapi.WriteError(w, http.StatusForbidden, err)
	case errors.Is(err, item.ErrInsufficientStock):
		_ = httpapi.WriteError(w, http.StatusConflict, err)
	case errors.Is(err, composables.ErrNoActorFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, err)
	default:
		_ = httpapi.WriteError(w, http.StatusInternalServerError, err)
	}
}
