package demo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/service"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/tagged"
)

// Amount is the payload of Increment.
type Amount struct {
	By int
}

// LoadRequest is the payload of Load.
type LoadRequest struct {
	Key string
}

// Increment adds By to the value of Idle and Ready states. Other states have
// no value and are left as they are.
var Increment = store.Pure("Increment", func(s tagged.Value, p Amount) tagged.Value {
	n, ok := tagged.FieldOf[int](s, "value")
	if !ok {
		return s
	}
	return s.With(tagged.Fields{"value": n + p.By})
})

// Transition replaces the state with the payload.
var Transition = store.Pure("Transition", func(_ tagged.Value, next tagged.Value) tagged.Value {
	return next
})

// Load resolves a key through the Cache, falling back to the Repository and
// filling the cache on a repository hit. An unknown key ends in Failed.
var Load = store.Async[tagged.Value, LoadRequest]("Load", func(_ context.Context, s tagged.Value, p LoadRequest, services service.Locator) (store.Result[tagged.Value], error) {
	cache, err := service.Get(services, CacheTag)
	if err != nil {
		return nil, err
	}
	repo, err := service.Get(services, RepositoryTag)
	if err != nil {
		return nil, err
	}
	logger, ok := service.GetOptional(services, LoggerTag)
	if !ok {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("key", p.Key))

	return store.Later(func(ctx context.Context) (tagged.Value, error) {
		if n, hit := cache.Get(p.Key); hit {
			logger.Debug("cache hit")
			return ready(tagged.Fields{"value": n, "source": "cache"}), nil
		}
		logger.Debug("cache miss")

		rec, found, err := repo.Load(p.Key)
		if err != nil {
			return s, fmt.Errorf("load %q: %w", p.Key, err)
		}
		if !found {
			logger.Info("record not found")
			return failed(tagged.Fields{"reason": fmt.Sprintf("no record for %q", p.Key)}), nil
		}
		if !cache.Set(rec.Key, rec.Value) {
			logger.Warn("cache dropped write")
		}
		return ready(tagged.Fields{"value": rec.Value, "source": "repository"}), nil
	}), nil
})

// Register adds every demo action to st.
func Register(st *store.Store[tagged.Value]) *store.Store[tagged.Value] {
	return st.RegisterAction(Increment).RegisterAction(Transition).RegisterAction(Load)
}
