package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultRedisPrefix  = "citadel:"
	defaultRedisChannel = "citadel:changes"
)

// Redis is a Store shared by every context pointed at the same server.
// Writes are published on a channel; each context tags its messages with a
// random origin id and ignores its own.
type Redis struct {
	client     *redis.Client
	ownsClient bool
	prefix     string
	channel    string
	origin     string
	log        *zap.Logger

	hub    hub
	pubsub *redis.PubSub
	doneCh chan struct{}
}

var _ Store = (*Redis)(nil)

type redisMessage struct {
	Origin  string `json:"origin"`
	Key     string `json:"key"`
	Value   string `json:"value,omitempty"`
	Deleted bool   `json:"deleted,omitempty"`
}

// NewRedis connects to redisURL and subscribes to the change channel.
func NewRedis(ctx context.Context, redisURL string, logger *zap.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	r, err := NewRedisWithClient(ctx, client, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	r.ownsClient = true
	return r, nil
}

// NewRedisWithClient builds a store from an existing client. The caller keeps
// ownership of client.
func NewRedisWithClient(ctx context.Context, client *redis.Client, logger *zap.Logger) (*Redis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Redis{
		client:  client,
		prefix:  defaultRedisPrefix,
		channel: defaultRedisChannel,
		origin:  uuid.NewString(),
		doneCh:  make(chan struct{}),
	}
	r.log = logger.With(zap.String("origin", r.origin))

	r.pubsub = client.Subscribe(ctx, r.channel)
	// Wait for the subscription so writes made right after construction by
	// other contexts are not missed.
	if _, err := r.pubsub.Receive(ctx); err != nil {
		_ = r.pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	go r.run(r.pubsub.Channel())
	return r, nil
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get implements Store.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// Set implements Store.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	r.announce(ctx, Change{Key: key, Value: value})
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	r.announce(ctx, Change{Key: key, Deleted: true})
	return nil
}

// announce notifies local subscribers and publishes for other contexts. A
// failed publish only costs remote freshness, so it is logged.
func (r *Redis) announce(ctx context.Context, c Change) {
	r.hub.publish(c)

	payload, err := json.Marshal(redisMessage{Origin: r.origin, Key: c.Key, Value: c.Value, Deleted: c.Deleted})
	if err != nil {
		r.log.Warn("encode change", zap.Error(err))
		return
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.log.Warn("publish change", zap.String("key", c.Key), zap.Error(err))
	}
}

// Subscribe implements Store.
func (r *Redis) Subscribe(key string, fn func(Change)) func() {
	return r.hub.subscribe(key, fn)
}

// Close stops the subscription and, when the store created it, the client.
func (r *Redis) Close() error {
	err := r.pubsub.Close()
	<-r.doneCh
	if r.ownsClient {
		if cerr := r.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func (r *Redis) run(messages <-chan *redis.Message) {
	defer close(r.doneCh)
	for msg := range messages {
		var m redisMessage
		if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
			r.log.Debug("ignoring malformed change", zap.Error(err))
			continue
		}
		if m.Origin == r.origin {
			continue
		}
		r.hub.publish(Change{Key: m.Key, Value: m.Value, Deleted: m.Deleted, Remote: true})
	}
}
