package controllers

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/kars-hq/kars/modules/logging/domain/entities/actionlog"
	"github.com/kars-hq/kars/modules/logging/presentation/viewmodels"
	"github.com/kars-hq/kars/modules/logging/services"
	"github.com/kars-hq/kars/pkg/application"
	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/httpapi"
	"github.com/kars-hq/kars/pkg/middleware"
	"github.com/kars-hq/kars/pkg/shared"
	"github.com/kars-hq/kars/pkg/workflow"
)

type LogsController struct {
	app      application.Application
	logs     *services.LogsService
	basePath string
}

func NewLogsController(app application.Application) application.Controller {
	return &LogsController{
		app:      app,
		logs:     app.Service(services.LogsService{}).(*services.LogsService),
		basePath: "/logs",
	}
}

func (c *LogsController) Key() string {
	return c.basePath
}

func (c *LogsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.Authorize(authz.Use(), services.LogsAuthzObject, "read"))
	router.HandleFunc("", c.List).Methods(http.MethodGet)
}

func (c *LogsController) List(w http.ResponseWriter, r *http.Request) {
	pagination := composables.UsePaginated(r)
	params := &actionlog.FindParams{
		Kind:   workflow.Kind(r.URL.Query().Get("kind")),
		Limit:  pagination.Limit,
		Offset: pagination.Offset,
	}
	if recordID, err := shared.ParseQueryID(r, "recordId"); err == nil {
		params.RecordID = recordID
	}
	entries, total, err := c.logs.GetPaginated(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			_ = httpapi.WriteError(w, http.StatusForbidden, err)
		case errors.Is(err, composables.ErrNoActorFound):
			_ = httpapi.WriteError(w, http.StatusUnauthorized, err)
		default:
			_ = httpapi.WriteError(w, http.StatusInternalServerError, err)
		}
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"data":  viewmodels.ActionLogsFromEntities(entries),
		"total": total,
	})
}
