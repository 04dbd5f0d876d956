package scope

import (
	"maps"

	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/internal/logging"
)

// Config configures a Context.
type Config[S any] struct {
	// Name labels the context in logs. Default: "context".
	Name string

	// Parent, when set, makes the new context a child of Parent: it is
	// disposed with Parent, receives Parent's notifications and resolves
	// services through Parent's registry.
	Parent *Context[S]

	// OnError receives subscriber failures. When nil they are logged.
	OnError func(error)

	// Logger defaults to the parent's logger, or a no-op logger.
	Logger *zap.Logger

	// Merge combines two states for Context.Merge. The default handles
	// states with a Merge(S) S method (such as tagged.Value) and
	// map[string]any.
	Merge func(cur, other S) (S, bool)
}

func normalizeConfig[S any](cfg Config[S]) Config[S] {
	if cfg.Name == "" {
		cfg.Name = "context"
	}
	if cfg.Parent != nil {
		if cfg.OnError == nil {
			cfg.OnError = cfg.Parent.onError
		}
		if cfg.Logger == nil {
			cfg.Logger = cfg.Parent.logger
		}
		if cfg.Merge == nil {
			cfg.Merge = cfg.Parent.merge
		}
	}
	cfg.Logger = logging.OrNop(cfg.Logger)
	if cfg.Merge == nil {
		cfg.Merge = defaultMerge[S]
	}
	return cfg
}

type merger[S any] interface {
	Merge(other S) S
}

func defaultMerge[S any](cur, other S) (S, bool) {
	if m, ok := any(cur).(merger[S]); ok {
		return m.Merge(other), true
	}
	curRec, ok1 := any(cur).(map[string]any)
	otherRec, ok2 := any(other).(map[string]any)
	if ok1 && ok2 {
		merged := maps.Clone(curRec)
		if merged == nil {
			merged = make(map[string]any, len(otherRec))
		}
		maps.Copy(merged, otherRec)
		return any(merged).(S), true
	}
	return cur, false
}
