// Package cache keeps solved seatings keyed by a structural hash of the request, so identical requests skip the engine
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/limaJavier/examseating/internal/config"
	"github.com/limaJavier/examseating/pkg/model"
	"github.com/mitchellh/hashstructure"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Cache interface {
	// Get reports whether a result is stored under key
	Get(ctx context.Context, key string) (model.Result, bool, error)
	Set(ctx context.Context, key string, result model.Result) error
}

// Settings are the seater settings a result depends on besides the request itself
type Settings struct {
	Solver        string
	Timeout       time.Duration
	Workers       int
	SeparationCap int
	TightLinking  bool
	MatchingLimit int
}

func SettingsOf(cfg config.Config) Settings {
	return Settings{
		Solver:        cfg.Solver,
		Timeout:       cfg.Timeout,
		Workers:       cfg.Workers,
		SeparationCap: cfg.SeparationCap,
		TightLinking:  cfg.TightLinking,
		MatchingLimit: cfg.MatchingLimit,
	}
}

// request is everything that determines the outcome of a solve
type request struct {
	Input    model.ModelInput
	Settings Settings
}

// Key hashes the request together with the settings of the seater that will serve it. Restrictions are hashed
// regardless of map order, while student and room order is significant since it drives the encoding
func Key(prefix string, input model.ModelInput, settings Settings) (string, error) {
	hash, err := hashstructure.Hash(request{Input: input, Settings: settings}, nil)
	if err != nil {
		return "", errors.Wrap(err, "cannot hash request")
	}
	return fmt.Sprintf("%s:result:%016x", prefix, hash), nil
}

// NewRedisClient connects to Redis and returns nil when the server cannot be reached, in which case callers run
// without cache
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil
	}
	return client
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func (cache *redisCache) Get(ctx context.Context, key string) (model.Result, bool, error) {
	bytes, err := cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Result{}, false, nil
	} else if err != nil {
		return model.Result{}, false, errors.Wrapf(err, "cannot read %v", key)
	}

	var result model.Result
	if err := json.Unmarshal(bytes, &result); err != nil {
		// A stale layout is treated as a miss and overwritten on the next Set
		return model.Result{}, false, nil
	}
	return result, true, nil
}

func (cache *redisCache) Set(ctx context.Context, key string, result model.Result) error {
	bytes, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "cannot encode result")
	}
	return errors.Wrapf(cache.client.Set(ctx, key, bytes, cache.ttl).Err(), "cannot write %v", key)
}

// noCache never hits
type noCache struct{}

func NewNoCache() Cache {
	return noCache{}
}

func (noCache) Get(context.Context, string) (model.Result, bool, error) {
	return model.Result{}, false, nil
}

func (noCache) Set(context.Context, string, model.Result) error {
	return nil
}
