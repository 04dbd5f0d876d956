package demo

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/on-the-ground/effect_ive_store/internal/logging"
	"github.com/on-the-ground/effect_ive_store/scope"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/tagged"
)

// Report summarizes a finished run.
type Report struct {
	Final       tagged.Value
	Commits     int
	Transitions int
	Failures    int
}

// Run executes sc against a fresh store and writes one line per commit to
// w, followed by a summary. Step failures are printed and counted; Run only
// fails when the scenario cannot be set up or w cannot be written.
func Run(ctx context.Context, sc Scenario, w io.Writer, logger *zap.Logger) (report Report, err error) {
	logger = logging.OrNop(logger)
	if err := sc.Validate(); err != nil {
		return Report{}, err
	}

	initial := idle(nil)
	if sc.Initial != nil {
		if initial, err = Fetch.Decode(sc.Initial); err != nil {
			return Report{}, err
		}
	}

	maxEntries := sc.Cache.MaxEntries
	if maxEntries == 0 {
		maxEntries = defaultCacheEntries
	}
	cache, err := NewRistrettoCache(maxEntries)
	if err != nil {
		return Report{}, err
	}
	defer cache.Close()

	repo, err := NewMemDBRepository()
	if err != nil {
		return Report{}, err
	}
	for _, rec := range sc.Records {
		if _, err := repo.InsertIfAbsent(rec); err != nil {
			return Report{}, fmt.Errorf("seed %q: %w", rec.Key, err)
		}
	}

	st := Register(store.New(initial, store.WithLogger(logger), store.WithName("fetch")))
	root, err := scope.New(st, scope.Config[tagged.Value]{
		Name:   sc.Name,
		Logger: logger,
		OnError: func(err error) {
			logger.Error("subscriber failed", zap.Error(err))
		},
	})
	if err != nil {
		return Report{}, err
	}
	defer root.Dispose()
	root.
		ProvideService(LoggerTag, logger).
		ProvideService(CacheTag, cache).
		ProvideService(RepositoryTag, repo)

	var writeErr error
	printf := func(format string, args ...any) {
		if _, err := fmt.Fprintf(w, format, args...); err != nil {
			writeErr = multierr.Append(writeErr, err)
		}
	}

	st.OnCommit(func(c store.Commit[tagged.Value]) {
		report.Commits++
		printf("%s: %s -> %s\n", c.Action, c.Prev, c.Next)
	})

	lastTag := ""
	unsubscribe, err := scope.Select(root, func(s tagged.Value) string { return s.Tag() }, func(tag string) {
		if lastTag != "" && tag != lastTag {
			report.Transitions++
		}
		lastTag = tag
	})
	if err != nil {
		return Report{}, err
	}
	defer unsubscribe()

	for i, step := range sc.Steps {
		if err := runStep(ctx, root, i+1, step); err != nil {
			report.Failures++
			printf("step %d: %s failed: %v\n", i+1, step.Action, err)
		}
	}

	report.Final, err = root.Current()
	if err != nil {
		return report, err
	}
	summary, err := Summary(report.Final)
	if err != nil {
		return report, err
	}
	printf("final: %s\n", summary)
	printf("commits: %d, transitions: %d, failures: %d\n", report.Commits, report.Transitions, report.Failures)
	return report, writeErr
}

// runStep dispatches one step from a child context disposed once the step
// is done. A Load first moves the machine to Loading.
func runStep(ctx context.Context, root *scope.Context[tagged.Value], n int, step Step) error {
	c, err := root.Child(fmt.Sprintf("step-%d", n))
	if err != nil {
		return err
	}
	defer c.Dispose()

	switch step.Action {
	case Increment.Name:
		_, err = scope.DispatchAction(ctx, c, Increment, Amount{By: step.By})
	case Transition.Name:
		var next tagged.Value
		if next, err = Fetch.Decode(step.State); err == nil {
			_, err = scope.DispatchAction(ctx, c, Transition, next)
		}
	case Load.Name:
		if _, err = scope.DispatchAction(ctx, c, Transition, loading(tagged.Fields{"key": step.Key})); err == nil {
			_, err = scope.DispatchAction(ctx, c, Load, LoadRequest{Key: step.Key})
		}
	default:
		err = fmt.Errorf("%w: unknown action %q", ErrInvalidScenario, step.Action)
	}
	return err
}

// Describe writes the shape of the Fetch enum and the demo actions as YAML.
func Describe(w io.Writer) error {
	out := struct {
		Enum    tagged.Description `yaml:"enum"`
		Actions []string           `yaml:"actions"`
	}{
		Enum:    Fetch.Describe(),
		Actions: Register(store.New(idle(nil))).Actions(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
