package constants

import (
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	AppKey       contextKey = "app"
	PoolKey      contextKey = "pool"
	TxKey        contextKey = "tx"
	TxHooksKey   contextKey = "txHooks"
	LoggerKey    contextKey = "logger"
	ParamsKey    contextKey = "params"
	UserKey      contextKey = "user"
	RequestStart contextKey = "requestStart"
)

// Validate is the shared validator instance. DTO Ok() methods run their
// struct tags through it.
var Validate = validator.New(validator.WithRequiredStructEnabled())
