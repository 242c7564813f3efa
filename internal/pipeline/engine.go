// Package pipeline orchestrates one squad build: shortlist, oracle selection,
// fallback, formation assignment and alternatives, behind the response cache.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/squad-builder/internal/cache"
	"github.com/jonathan/squad-builder/internal/catalog"
	"github.com/jonathan/squad-builder/internal/formation"
	"github.com/jonathan/squad-builder/internal/ranking"
	"github.com/jonathan/squad-builder/internal/selection"
	"github.com/jonathan/squad-builder/internal/tactics"
	"github.com/jonathan/squad-builder/internal/types"
)

// Limits for replacement and catalog search results
const (
	MaxReplacements    = 5
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Aggregator builds the candidate shortlist for a query. *shortlist.Aggregator satisfies it.
type Aggregator interface {
	Aggregate(ctx context.Context, query string) ([]types.Player, error)
}

// Selector proposes a squad from a shortlist. *selection.Adapter satisfies it.
type Selector interface {
	Select(ctx context.Context, shortlist []types.Player, c types.Constraints, preferences string) (types.Selection, error)
}

// TacticsInferrer reads tactics from a chat message. *tactics.Inferrer satisfies it.
type TacticsInferrer interface {
	Infer(ctx context.Context, message string) (types.Tactics, error)
}

// Recorder receives build metrics. *metrics.Manager satisfies it.
type Recorder interface {
	Fallback()
	ObserveBuild(outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Fallback()                          {}
func (nopRecorder) ObserveBuild(string, time.Duration) {}

// build is what the cache stores: the result and the shortlist it was drawn from.
type build struct {
	result    types.SquadResult
	shortlist []types.Player
}

// Engine runs squad builds. It is safe for concurrent use.
type Engine struct {
	aggregator Aggregator
	selector   Selector
	tactics    TacticsInferrer
	catalog    catalog.Loader
	cache      *cache.Cache[build]
	recorder   Recorder
	logger     *zap.Logger

	defaults   types.CountLimits
	maxPlayers int

	mu            sync.RWMutex
	lastShortlist []types.Player
}

// Option configures an Engine.
type Option func(*Engine)

// WithTactics sets the chat tactics inferrer. Without one, chat builds use the default tactics.
func WithTactics(t TacticsInferrer) Option {
	return func(e *Engine) { e.tactics = t }
}

// WithCatalog enables catalog search.
func WithCatalog(l catalog.Loader) Option {
	return func(e *Engine) { e.catalog = l }
}

// WithCache sizes the response cache and reports its events to observer.
func WithCache(capacity int, observer cache.Observer) Option {
	return func(e *Engine) {
		e.cache = cache.New[build](capacity, cache.WithObserver[build](observer), cache.WithLogger[build](e.logger))
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithLogger sets the logger. Apply it before WithCache for the cache to share it.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefaults sets the count limits applied when a request omits constraints, and the squad ceiling.
func WithDefaults(limits types.CountLimits, maxPlayers int) Option {
	return func(e *Engine) {
		e.defaults = limits
		if maxPlayers > 0 {
			e.maxPlayers = maxPlayers
		}
	}
}

// New creates an engine from its collaborators.
func New(aggregator Aggregator, selector Selector, opts ...Option) *Engine {
	e := &Engine{
		aggregator: aggregator,
		selector:   selector,
		recorder:   nopRecorder{},
		logger:     zap.NewNop(),
		defaults:   types.DefaultCountLimits(),
		maxPlayers: types.DefaultMaxPlayers,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.New[build](cache.DefaultCapacity, cache.WithLogger[build](e.logger))
	}
	return e
}

// Build produces a squad for the request. Identical requests are served from
// the cache without calling the search or the oracle again. Only invalid
// constraints and collaborator failures are returned as errors.
func (e *Engine) Build(ctx context.Context, req types.BuildSquadRequest, progress ProgressCallback) (types.SquadResult, error) {
	start := time.Now()
	req.Normalize()

	c, err := types.NewConstraints(req.Limits(e.defaults), e.maxPlayers, req.Budget, req.BudgetEnabled)
	if err != nil {
		return types.SquadResult{}, err
	}

	fp := cache.Fingerprint(cacheKey(req, c))
	b, cached, err := e.cache.GetOrCompute(ctx, fp, func(ctx context.Context) (build, error) {
		return e.compute(ctx, req, c, fp, progress)
	})
	if err != nil {
		e.recorder.ObserveBuild("error", time.Since(start))
		e.logger.Error("squad build failed", zap.String("fingerprint", fp), zap.Error(err))
		return types.SquadResult{}, err
	}

	e.mu.Lock()
	e.lastShortlist = b.shortlist
	e.mu.Unlock()

	result := b.result
	result.Cached = cached
	outcome := "oracle"
	switch {
	case cached:
		outcome = "cached"
	case result.Fallback:
		outcome = "fallback"
	}
	e.recorder.ObserveBuild(outcome, time.Since(start))
	emit(progress, StepComplete, result.AIMessage, nil)

	e.logger.Info("squad built",
		zap.String("fingerprint", fp),
		zap.String("outcome", outcome),
		zap.Int("players", len(result.Players())),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (e *Engine) compute(ctx context.Context, req types.BuildSquadRequest, c types.Constraints, fp string, progress ProgressCallback) (build, error) {
	emit(progress, StepShortlist, "Searching the catalog for candidates", nil)
	shortlist, err := e.aggregator.Aggregate(ctx, req.Prompt)
	if err != nil {
		return build{}, err
	}

	emit(progress, StepSelection, fmt.Sprintf("Selecting a squad from %d candidates", len(shortlist)), nil)
	sel, err := e.selector.Select(ctx, shortlist, c, Preferences(req))
	if err != nil {
		return build{}, err
	}

	selected := sel.Selected
	fallback := len(selected) == 0 || !sel.Valid()
	if fallback {
		selected = selection.Fallback(shortlist, c.MaxPlayers)
		e.recorder.Fallback()
		e.logger.Warn("oracle gave no valid squad, using top-rated fallback",
			zap.Int("attempts", sel.Attempts),
			zap.Int("violations", len(sel.Violations)),
			zap.Int("fallback_players", len(selected)),
		)
		emit(progress, StepFallback, "Using the top-rated candidates", sel.Violations)
	}

	emit(progress, StepAssignment, "Placing players in formation "+req.Formation, nil)
	a := formation.Assign(selected, req.Formation)
	ranking.AttachAlternatives(a.Pitch, shortlist)

	result := types.SquadResult{
		PitchSlots:   a.Pitch,
		BenchSlots:   a.Bench,
		ReserveSlots: a.Reserves,
		Excluded:     []types.Exclusion{},
		Fallback:     fallback,
		Fingerprint:  fp,
	}
	if !fallback {
		result.StrategyReasoning = sel.Notes
		if sel.Excluded != nil {
			result.Excluded = sel.Excluded
		}
	}
	result.TotalCost = math.Round(squadCost(result.Players())*10) / 10
	result.AIMessage = Summarize(a.Formation.Name, req, result)
	return build{result: result, shortlist: shortlist}, nil
}

// Chat infers tactics from a free-text message and builds with them. The
// result carries the inferred tactics.
func (e *Engine) Chat(ctx context.Context, req types.ChatRequest, progress ProgressCallback) (types.SquadResult, error) {
	t := tactics.Defaults()
	if e.tactics != nil {
		inferred, err := e.tactics.Infer(ctx, req.Message)
		if err != nil {
			e.logger.Warn("tactics inference fell back to defaults", zap.Error(err))
		}
		t = inferred
	}

	result, err := e.Build(ctx, types.BuildSquadRequest{
		Prompt:            req.Message,
		Formation:         t.Formation,
		BuildUpStyle:      t.BuildUpStyle,
		DefensiveApproach: t.DefensiveApproach,
		Budget:            t.Budget,
		BudgetEnabled:     t.BudgetEnabled,
		Constraints:       req.Constraints,
	}, progress)
	if err != nil {
		return types.SquadResult{}, err
	}
	result.Tactics = &t
	return result, nil
}

// ReplacePlayer suggests up to five swaps for a slot from the most recent shortlist.
func (e *Engine) ReplacePlayer(req types.ReplaceRequest) ([]types.Replacement, error) {
	e.mu.RLock()
	shortlist := e.lastShortlist
	e.mu.RUnlock()

	if len(shortlist) == 0 {
		return nil, ErrNoShortlist
	}

	exclude := make(map[string]bool, len(req.CurrentSquadIDs)+1)
	for _, id := range req.CurrentSquadIDs {
		exclude[id] = true
	}
	if req.CurrentPlayerID != "" {
		exclude[req.CurrentPlayerID] = true
	}
	return ranking.Replacements(req.Position, shortlist, exclude, MaxReplacements), nil
}

// SearchPlayers filters the full catalog by slot role and free text.
func (e *Engine) SearchPlayers(ctx context.Context, role, text string, limit int) ([]types.Player, error) {
	if e.catalog == nil {
		return nil, ErrNoCatalog
	}
	players, err := e.catalog.Load(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)
	return ranking.SearchCatalog(players, role, text, limit), nil
}

func cacheKey(req types.BuildSquadRequest, c types.Constraints) cache.Key {
	return cache.Key{
		Query:             req.Prompt,
		Formation:         req.Formation,
		BuildUpStyle:      req.BuildUpStyle,
		DefensiveApproach: req.DefensiveApproach,
		Budget:            req.Budget,
		BudgetEnabled:     req.BudgetEnabled,
		MinGK:             c.Bounds(types.CategoryGK).Min,
		MaxGK:             c.Bounds(types.CategoryGK).Max,
		MinDEF:            c.Bounds(types.CategoryDEF).Min,
		MinMID:            c.Bounds(types.CategoryMID).Min,
		MinFWD:            c.Bounds(types.CategoryFWD).Min,
	}
}
