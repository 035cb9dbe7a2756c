package generation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerationConfig describes the level to build
type GenerationConfig struct {
	Seed           uint64          `json:"seed"`
	Width          int             `json:"width" validate:"gte=8,lte=1024"`
	Height         int             `json:"height" validate:"gte=8,lte=1024"`
	RoomTarget     int             `json:"room_target,omitempty" validate:"gte=0,lte=512"` // 0 derives it from the map size
	Algorithm      AlgorithmKind   `json:"algorithm" validate:"required"`
	Biomes         []BiomeID       `json:"biomes" validate:"required,min=1,dive,required"` // first is the primary biome
	Difficulty     float64         `json:"difficulty" validate:"gte=0,lte=1000"`
	MaxRetryBudget int             `json:"max_retry_budget" validate:"gte=0,lte=1000"`
	Rules          ValidationRules `json:"rules"`
	BlendRadius    int             `json:"blend_radius" validate:"gte=-1"` // 0 uses the default, -1 disables blending
}

// MaxDifficulty is the highest difficulty a config may ask for
const MaxDifficulty = 1000

// DefaultConfig returns a 64x64 single-biome room-based config
func DefaultConfig(seed uint64) GenerationConfig {
	return GenerationConfig{
		Seed:           seed,
		Width:          64,
		Height:         64,
		Algorithm:      AlgorithmRoomBased,
		Biomes:         []BiomeID{BiomeForest},
		Difficulty:     0.3,
		MaxRetryBudget: 5,
		Rules:          DefaultRules(),
		BlendRadius:    DefaultBlendRadius,
	}
}

// withDefaults fills zero-valued optional fields
func (c GenerationConfig) withDefaults() GenerationConfig {
	if c.Rules == (ValidationRules{}) {
		c.Rules = DefaultRules()
	}
	if c.BlendRadius == 0 {
		c.BlendRadius = DefaultBlendRadius
	}
	c.Biomes = append([]BiomeID(nil), c.Biomes...)
	return c
}

func (c *GenerationConfig) roomTarget() int {
	if c.RoomTarget > 0 {
		return c.RoomTarget
	}
	return defaultRoomTarget(c.Width, c.Height)
}

func (c *GenerationConfig) blendRadius() int {
	if c.BlendRadius < 0 {
		return 0
	}
	return c.BlendRadius
}

// State is a step of the generation state machine
type State int

const (
	StateConfigured State = iota
	StateGenerating
	StateValidating
	StateSucceeded
	StateRetry
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateGenerating:
		return "generating"
	case StateValidating:
		return "validating"
	case StateSucceeded:
		return "succeeded"
	case StateRetry:
		return "retry_with_new_seed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// AttemptFailure records why one attempt was rejected
type AttemptFailure struct {
	Attempt int       `json:"attempt"`
	Seed    uint64    `json:"seed"`
	Kind    ErrorKind `json:"kind"`
	Reason  string    `json:"reason"`
}

// Result is delivered once on the channel returned by GenerateAsync
type Result struct {
	Level *LevelData
	Err   error
}

// Generator sequences the generation pipeline and owns the retry policy.
// A Generator holds no per-level state and is safe for concurrent use.
type Generator struct {
	algorithms map[AlgorithmKind]Algorithm
	biomes     *BiomeCatalog
	validate   *validator.Validate
	logf       func(format string, args ...any)
	observe    func(attempt int, state State)
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger routes progress messages to logf; pass nil to silence them
func WithLogger(logf func(format string, args ...any)) Option {
	return func(g *Generator) {
		g.logf = logf
	}
}

// WithBiomes replaces the biome catalog
func WithBiomes(c *BiomeCatalog) Option {
	return func(g *Generator) {
		g.biomes = c
	}
}

// WithAlgorithm registers or replaces an algorithm
func WithAlgorithm(kind AlgorithmKind, a Algorithm) Option {
	return func(g *Generator) {
		g.algorithms[kind] = a
	}
}

// WithStateObserver is called on every state transition
func WithStateObserver(fn func(attempt int, state State)) Option {
	return func(g *Generator) {
		g.observe = fn
	}
}

// NewGenerator creates a generator with the built-in algorithms and biomes
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		algorithms: DefaultAlgorithms(),
		biomes:     DefaultBiomes(),
		validate:   validator.New(),
		logf:       log.Printf,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Biomes returns the generator's biome catalog
func (g *Generator) Biomes() *BiomeCatalog {
	return g.biomes
}

// Algorithms lists the registered algorithm kinds, built-ins first
func (g *Generator) Algorithms() []AlgorithmKind {
	out := make([]AlgorithmKind, 0, len(g.algorithms))
	seen := make(map[AlgorithmKind]bool)
	for _, k := range AlgorithmKinds() {
		if _, ok := g.algorithms[k]; ok {
			out = append(out, k)
			seen[k] = true
		}
	}
	extra := make([]string, 0)
	for k := range g.algorithms {
		if !seen[k] {
			extra = append(extra, string(k))
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, AlgorithmKind(k))
	}
	return out
}

func (g *Generator) log(format string, args ...any) {
	if g.logf != nil {
		g.logf(format, args...)
	}
}

func (g *Generator) enter(attempt int, s State) {
	if g.observe != nil {
		g.observe(attempt, s)
	}
}

// GenerateLevel builds a level with a default generator
func GenerateLevel(cfg GenerationConfig) (*LevelData, error) {
	return NewGenerator(WithLogger(nil)).Generate(context.Background(), cfg)
}

// GenerateAsync runs Generate on its own goroutine and delivers exactly one
// Result on the returned channel
func (g *Generator) GenerateAsync(ctx context.Context, cfg GenerationConfig) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		level, err := g.Generate(ctx, cfg)
		out <- Result{Level: level, Err: err}
	}()
	return out
}

// Generate runs the pipeline until a layout validates or the retry budget is
// spent. Attempt k > 0 uses DeriveSeed(cfg.Seed, k), so the outcome depends
// only on the config.
func (g *Generator) Generate(ctx context.Context, cfg GenerationConfig) (*LevelData, error) {
	g.enter(0, StateConfigured)

	cfg = cfg.withDefaults()
	alg, biomes, err := g.checkConfig(cfg)
	if err != nil {
		g.enter(0, StateFailed)
		return nil, err
	}

	attempts := cfg.MaxRetryBudget + 1
	failures := make([]AttemptFailure, 0)
	var last *GenerationError

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			g.enter(attempt, StateFailed)
			return nil, fmt.Errorf("generation cancelled after %d attempts: %w", attempt, err)
		}

		seed := DeriveSeed(cfg.Seed, attempt)
		level, err := g.attempt(cfg, alg, biomes, seed, attempt, failures)
		if err == nil {
			g.enter(attempt, StateSucceeded)
			g.log("Generated %s level %s (%dx%d) on attempt %d with seed %d",
				cfg.Algorithm, level.ID(), cfg.Width, cfg.Height, attempt+1, seed)
			return level, nil
		}

		var genErr *GenerationError
		if !errors.As(err, &genErr) || !genErr.Recoverable() {
			g.enter(attempt, StateFailed)
			return nil, fmt.Errorf("attempt %d: %w", attempt+1, err)
		}

		last = genErr
		failures = append(failures, AttemptFailure{
			Attempt: attempt + 1,
			Seed:    seed,
			Kind:    genErr.Kind,
			Reason:  genErr.Reason,
		})
		g.log("Attempt %d/%d rejected (seed %d): %s", attempt+1, attempts, seed, genErr.Reason)
		if attempt+1 < attempts {
			g.enter(attempt, StateRetry)
		}
	}

	g.enter(attempts-1, StateFailed)
	return nil, &GenerationError{
		Kind:     KindRetryBudgetExceeded,
		Reason:   fmt.Sprintf("no valid %s layout", cfg.Algorithm),
		Attempts: attempts,
		Err:      last,
	}
}

// attempt runs one pass of the pipeline with a fresh RNG
func (g *Generator) attempt(cfg GenerationConfig, alg Algorithm, biomes []*Biome, seed uint64, attempt int, failures []AttemptFailure) (*LevelData, error) {
	g.enter(attempt, StateGenerating)
	rng := NewRNG(seed)

	graph, tm, err := alg.Generate(&cfg, rng)
	if err != nil {
		return nil, fmt.Errorf("%s layout: %w", cfg.Algorithm, err)
	}
	if graph == nil || tm == nil {
		return nil, fmt.Errorf("%s layout returned no level", cfg.Algorithm)
	}
	if tm.Width() != cfg.Width || tm.Height() != cfg.Height {
		return nil, fmt.Errorf("%s layout returned a %dx%d map, want %dx%d",
			cfg.Algorithm, tm.Width(), tm.Height(), cfg.Width, cfg.Height)
	}

	classifyRooms(graph, rng)
	NewBiomeAssigner(biomes).Assign(tm, graph, rng)
	zones := NewBlender(cfg.blendRadius(), biomes).Blend(tm, rng)
	spawns := NewContentPlacer(cfg.Difficulty, biomes).Place(tm, graph, rng)

	g.enter(attempt, StateValidating)
	if err := NewValidator(cfg.Rules).Validate(graph, tm); err != nil {
		return nil, err
	}

	meta := Metadata{
		Seed:        cfg.Seed,
		SeedUsed:    seed,
		Algorithm:   cfg.Algorithm,
		Attempts:    attempt + 1,
		Failures:    append([]AttemptFailure{}, failures...),
		Difficulty:  cfg.Difficulty,
		Biomes:      append([]BiomeID{}, cfg.Biomes...),
		BlendRadius: cfg.blendRadius(),
	}
	return newLevelData(configID(cfg), tm, graph, spawns, zones, biomes, meta), nil
}

// checkConfig rejects nonsensical input before any attempt is made
func (g *Generator) checkConfig(cfg GenerationConfig) (Algorithm, []*Biome, error) {
	if err := g.validate.Struct(cfg); err != nil {
		return nil, nil, &GenerationError{Kind: KindInvalidConfig, Reason: validationReason(err)}
	}

	alg, ok := g.algorithms[cfg.Algorithm]
	if !ok || alg == nil {
		return nil, nil, newError(KindInvalidConfig, "unknown algorithm %q", cfg.Algorithm)
	}

	biomes := make([]*Biome, 0, len(cfg.Biomes))
	seen := make(map[BiomeID]bool, len(cfg.Biomes))
	codes := make(map[string]BiomeID, len(cfg.Biomes))
	for _, id := range cfg.Biomes {
		if seen[id] {
			return nil, nil, newError(KindInvalidConfig, "biome %q listed twice", id)
		}
		seen[id] = true
		b, err := g.biomes.lookup(id)
		if err != nil {
			return nil, nil, newError(KindInvalidConfig, "%v", err)
		}
		if other, dup := codes[b.Code]; dup {
			return nil, nil, newError(KindInvalidConfig, "biomes %q and %q share map code %q", other, id, b.Code)
		}
		codes[b.Code] = id
		if !b.Allows(cfg.Algorithm) {
			return nil, nil, newError(KindInvalidConfig, "biome %q does not support algorithm %q", id, cfg.Algorithm)
		}
		biomes = append(biomes, b)
	}

	// biome exclusions also bind the layouts a hybrid mixes in
	if h, ok := alg.(*Hybrid); ok {
		var excluded []AlgorithmKind
		for _, b := range biomes {
			excluded = append(excluded, b.Excludes...)
		}
		if len(excluded) > 0 {
			h = h.Without(excluded...)
			if len(h.Parts) == 0 {
				return nil, nil, newError(KindInvalidConfig, "biomes %v exclude every layout hybrid can mix", cfg.Biomes)
			}
			alg = h
		}
	}
	return alg, biomes, nil
}

// validationReason flattens validator errors into one message
func validationReason(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), validationMessage(fe)))
	}
	return strings.Join(parts, "; ")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}
