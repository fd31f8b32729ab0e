package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/kars-hq/kars/modules/core/domain/aggregates/user"
	"github.com/kars-hq/kars/modules/core/presentation/viewmodels"
	"github.com/kars-hq/kars/modules/core/services"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/httpapi"
	"github.com/kars-hq/kars/pkg/middleware"
	"github.com/kars-hq/kars/pkg/shared"
)

type UsersController struct {
	app      application.Application
	users    *services.UserService
	basePath string
}

func NewUsersController(app application.Application) application.Controller {
	return &UsersController{
		app:      app,
		users:    app.Service(services.UserService{}).(*services.UserService),
		basePath: "/users",
	}
}

func (c *UsersController) Key() string {
	return c.basePath
}

func (c *UsersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.GetByID).Methods(http.MethodGet)

	writeRouter := r.PathPrefix(c.basePath).Subrouter()
	writeRouter.Use(middleware.WithTransaction())
	writeRouter.HandleFunc("", c.Create).Methods(http.MethodPost)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Update).Methods(http.MethodPatch)
	writeRouter.HandleFunc("/{id:[0-9]+}", c.Delete).Methods(http.MethodDelete)
}

func (c *UsersController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	items, total, err := c.users.GetPaginated(r.Context(), &user.FindParams{
		Q:      r.URL.Query().Get("q"),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data":  viewmodels.UsersFromEntities(items),
		"total": total,
	})
}

func (c *UsersController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	u, err := c.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": viewmodels.UserFromEntity(u)})
}

func (c *UsersController) Create(w http.ResponseWriter, r *http.Request) {
	var dto user.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	created, err := c.users.Create(r.Context(), &dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, map[string]any{"data": viewmodels.UserFromEntity(created)})
}

func (c *UsersController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	var dto user.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, errors.New("invalid json"))
		return
	}
	if errs, ok := dto.Ok(); !ok {
		_ = httpapi.WriteValidationErrors(w, errs)
		return
	}
	updated, err := c.users.Update(r.Context(), id, &dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"data": viewmodels.UserFromEntity(updated)})
}

func (c *UsersController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, err)
		return
	}
	if err := c.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNotFound):
		_ = httpapi.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, user.ErrEmailTaken):
		_ = httpapi.WriteError(w, http.StatusConflict, err)
	case errors.Is(err, authz.ErrForbidden):
		_ = httpapi.WriteError(w, http.StatusForbidden, err)
	case errors.Is(err, composables.ErrNoActorFound):
		_ = httpapi.WriteError(w, http.StatusUnauthorized, err)
	default:
		_ = httpapi.WriteError(w, http.StatusInternalServerError, err)
	}
}
