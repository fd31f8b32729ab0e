package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/item"
	"github.com/kars-hq/kars/modules/warehouse/domain/aggregates/warehouse"
	"github.com/kars-hq/kars/modules/warehouse/presentation/viewmodels"
	"github.com/kars-hq/kars/modules/warehouse/services"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/httpapi"
	"github.com/kars-hq/kars/pkg/middleware"
	"github.com/kars-hq/kars/pkg/shared"
)

type WarehousesController struct {
	app        application.Application
	warehouses *services.WarehouseService
	items      *services.ItemService
	basePath   string
}

func NewWarehousesController(app application.Application) application.Controller {
	return &WarehousesController{
		app:        app,
		warehouses: app.Service(services.WarehouseService{}).(*services.WarehouseService),
		items:      app.Service(services.ItemService{}).(*services.ItemService),
		basePath:   "/warehouse",
	}
}

func (c *WarehousesController) Key() string {
	return c.basePath
}

func (c *WarehousesController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}/items", c.ListItems).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
	writeRouter.HandleFunc("/items", c.CreateItem).Methods(http.MethodPost)
}

func (c *WarehousesController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	items, total, err := c.warehouses.GetPaginated(r.Context(), &warehouse.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
	if err != nil {
		writeWarehouseError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data":  viewmodels.WarehousesFromEntities(items),
		"total": total,
	})
}

func (c *WarehousesController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	entity, err := c.warehouses.GetByID(r.Context(), id)
	if err != nil {
		writeWarehouseError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": viewmodels.WarehouseFromEntity(entity)})
}

func (c *WarehousesController) ListItems(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	pagination := composables.UsePaginated(r)
	items, total, err := c.items.GetPaginated(r.Context(), &item.FindParams{
		WarehouseID: id,
		Q:           r.URL.Query().Get("q"),
		Limit:       pagination.Limit,
		Offset:      pagination.Offset,
	})
	if err != nil {
		writeWarehouseError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"warehouseId": id,
		"data":        viewmodels.ItemsFromEntities(items),
		"total":       total,
	})
}

func (c *WarehousesController) Create(w http.ResponseWriter, r *http.Request) {
	var dto warehouse.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	created, err := c.warehouses.Create(r.Context(), &dto)
	if err != nil {
		writeWarehouseError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"data": viewmodels.WarehouseFromEntity(created)})
}

func (c *WarehousesController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	var dto warehouse.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	updated, err := c.warehouses.Update(r.Context(), id, &dto)
	if err != nil {
		writeWarehouseError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": viewmodels.WarehouseFromEntity(updated)})
}

func (c *WarehousesController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := c.warehouses.Delete(r.Context(), id); err != nil {
		writeWarehouseError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func (c *WarehousesController) CreateItem(w http.ResponseWriter, r *http.Request) {
	var dto item.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	created, err := c.items.Create(r.Context(), &dto)
	if err != nil {
		writeWarehouseError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"data": viewmodels.ItemFromEntity(created)})
}

func writeWarehouseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, warehouse.ErrNotFound), errors.Is(err, item.ErrNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, item.ErrInsufficientStock):
		_ = httpapi.WriteError(w, http.StatusConflict, err)
	case errors.Is(err, authz.ErrForbidden):
		_ = httpapi.WriteError(w, http.StatusForbidden, err)
	case errors.Is(err, composables.ErrNoActorFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, err)
	default:
		_ = httpapi.WriteError(w, http.StatusInternalServerError, err)
	}
}
