package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/kars-hq/kars/modules/orders/domain/aggregates/order"
	"github.com/kars-hq/kars/modules/orders/presentation/viewmodels"
	"github.com/kars-hq/kars/modules/orders/services"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/httpapi"
	"github.com/kars-hq/kars/pkg/middleware"
	"github.com/kars-hq/kars/pkg/shared"
	"github.com/kars-hq/kars/pkg/workflow"
)

type OrdersController struct {
	app      application.Application
	orders   *services.OrderService
	basePath string
}

func NewOrdersController(app application.Application) application.Controller {
	return &OrdersController{
		app:      app,
		orders:   app.Service(services.OrderService{}).(*services.OrderService),
		basePath: "/orders",
	}
}

func (c *OrdersController) Key() string {
	return c.basePath
}

func (c *OrdersController) Register(r *mux.Router) {
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

func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	params := &order.FindParams{
		Status: workflow.Status(r.URL.Query().Get("status")),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if userID, err := shared.ParseQueryID(r, "userId"); err == nil {
		params.UserID = userID
	}
	entities, total, err := c.orders.GetPaginated(r.Context(), params)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data":  viewmodels.OrdersFromEntities(entities),
		"total": total,
	})
}

func (c *OrdersController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := c.orders.GetByID(r.Context(), id)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	vm := viewmodels.OrderFromEntity(entity)
	if actor, err := composables.UseActor(r.Context()); err == nil {
		vm = viewmodels.OrderForActor(entity, actor)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": vm})
}

func (c *OrdersController) Create(w http.ResponseWriter, r *http.Request) {
	var dto order.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	created, err := c.orders.Create(r.Context(), &dto)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"data": viewmodels.OrderFromEntity(created)})
}

func (c *OrdersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	var dto order.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	updated, err := c.orders.Update(r.Context(), id, &dto)
	if err != nil {
		writeOrderError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": viewmodels.OrderFromEntity(updated)})
}

func (c *OrdersController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	var dto order.UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	updated, outcome, err := c.orders.UpdateStatus(r.Context(), id, dto.Target())
	if err != nil {
		writeOrderError(w, err)
		return
	}
	vm := viewmodels.OrderFromEntity(updated)
	if actor, err := composables.UseActor(r.Context()); err == nil {
		vm = viewmodels.OrderForActor(updated, actor)
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data":         vm,
		"notification": outcome.Notification,
	})
}

func (c *OrdersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := c.orders.Delete(r.Context(), id); err != nil {
		writeOrderError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func writeOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrNotFound):
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
