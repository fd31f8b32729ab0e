package composables

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/kars-hq/kars/pkg/configuration"
	"github.com/kars-hq/kars/pkg/constants"
	"github.com/kars-hq/kars/pkg/workflow"
)

var (
	ErrNoLogger     = errors.New("logger not found")
	ErrNoActorFound = errors.New("no actor found in context")
)

type Params struct {
	IP            string
	UserAgent     string
	RequestID     string
	Authenticated bool
	Request       *http.Request
	Writer        http.ResponseWriter
}

func UseParams(ctx context.Context) (*Params, bool) {
	params, ok := ctx.Value(constants.ParamsKey).(*Params)
	return params, ok
}

func WithParams(ctx context.Context, params *Params) context.Context {
	return context.WithValue(ctx, constants.ParamsKey, params)
}

// UseLogger returns the request-scoped logger. Handlers run behind the
// logging middleware, so a missing logger is a programming error.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(constants.LoggerKey)
	if logger == nil {
		panic("logger not found")
	}
	return logger.(*logrus.Entry)
}

// WithActor threads the authenticated actor explicitly through the context
// so services stay testable without any ambient auth store.
func WithActor(ctx context.Context, actor workflow.Actor) context.Context {
	return context.WithValue(ctx, constants.UserKey, actor)
}

func UseActor(ctx context.Context) (workflow.Actor, error) {
	actor, ok := ctx.Value(constants.UserKey).(workflow.Actor)
	if !ok {
		return workflow.Actor{}, ErrNoActorFound
	}
	return actor, nil
}

type PaginationParams struct {
	Limit  int
	Offset int
}

// UsePaginated reads limit/offset query parameters, clamped to the
// configured page sizes.
func UsePaginated(r *http.Request) PaginationParams {
	conf := configuration.Use()
	limit := conf.PageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > conf.MaxPageSize {
		limit = conf.MaxPageSize
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return PaginationParams{Limit: limit, Offset: offset}
}
