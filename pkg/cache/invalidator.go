// Package cache signals clients which logical resource groups went stale
// after a mutation. Consumers subscribe to the redis channel instead of
// re-fetching on a timer.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kars-hq/kars/pkg/workflow"
)

// Invalidator broadcasts stale-resource notifications.
type Invalidator interface {
	Invalidate(ctx context.Context, resources ...workflow.Resource)
}

// Message is the wire payload published on the invalidation channel.
type Message struct {
	Resources []workflow.Resource `json:"resources"`
	At        time.Time           `json:"at"`
}

type redisInvalidator struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger
}

func NewRedisInvalidator(client *redis.Client, channel string, log *logrus.Logger) Invalidator {
	return &redisInvalidator{client: client, channel: channel, log: log}
}

func (r *redisInvalidator) Invalidate(ctx context.Context, resources ...workflow.Resource) {
	if len(resources) == 0 {
		return
	}
	payload, err := json.Marshal(Message{Resources: resources, At: time.Now().UTC()})
	if err != nil {
		r.log.WithError(err).Error("cache: failed to encode invalidation message")
		return
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		// Best effort: a missed signal means a stale client cache, not data
		// loss. The record itself is already committed.
		r.log.WithError(err).WithField("resources", resources).
			Warn("cache: failed to publish invalidation")
	}
}

type logInvalidator struct {
	log *logrus.Logger
}

// NewLogInvalidator is the fallback when no redis endpoint is configured.
func NewLogInvalidator(log *logrus.Logger) Invalidator {
	return &logInvalidator{log: log}
}

func (l *logInvalidator) Invalidate(_ context.Context, resources ...workflow.Resource) {
	if len(resources) == 0 {
		return
	}
	l.log.WithField("resources", resources).Info("cache: resources invalidated")
}
