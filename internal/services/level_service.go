package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"

	"github.com/zyedidia/generic/cache"

	"brawler.dev/levelgen/internal/config"
	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/models"
	"brawler.dev/levelgen/internal/store"
)

// ErrLevelTooLarge is returned for requests above the configured size limit
var ErrLevelTooLarge = errors.New("level exceeds the configured size limit")

// LevelService generates, persists and serves levels
type LevelService struct {
	generator *generation.Generator
	storage   store.Storage
	cfg       config.GenerationConfig
	seed      func() uint64

	mu    sync.Mutex
	cache *cache.Cache[string, *generation.LevelData] // nil when caching is off
}

// NewLevelService creates a new LevelService
func NewLevelService(gen *generation.Generator, storage store.Storage, cfg config.GenerationConfig) *LevelService {
	s := &LevelService{
		generator: gen,
		storage:   storage,
		cfg:       cfg,
		seed:      rand.Uint64,
	}
	if cfg.CacheSize > 0 {
		s.cache = cache.New[string, *generation.LevelData](cfg.CacheSize)
	}
	return s
}

// Config turns a request into a generation config, filling omitted fields
// from the server defaults
func (s *LevelService) Config(req models.GenerateRequest) (generation.GenerationConfig, error) {
	seed := s.seed()
	if req.Seed != nil {
		seed = *req.Seed
	}
	cfg := generation.DefaultConfig(seed)
	cfg.MaxRetryBudget = s.cfg.MaxRetryBudget

	if req.Width > 0 {
		cfg.Width = req.Width
	}
	if req.Height > 0 {
		cfg.Height = req.Height
	}
	if cfg.Width > s.cfg.MaxWidth || cfg.Height > s.cfg.MaxHeight {
		return cfg, fmt.Errorf("%dx%d above %dx%d: %w",
			cfg.Width, cfg.Height, s.cfg.MaxWidth, s.cfg.MaxHeight, ErrLevelTooLarge)
	}

	cfg.RoomTarget = req.RoomTarget
	if req.Algorithm != "" {
		cfg.Algorithm = generation.AlgorithmKind(req.Algorithm)
	}
	if len(req.Biomes) > 0 {
		cfg.Biomes = cfg.Biomes[:0]
		for _, b := range req.Biomes {
			cfg.Biomes = append(cfg.Biomes, generation.BiomeID(b))
		}
	}
	if req.Difficulty != nil {
		cfg.Difficulty = *req.Difficulty
	}
	if req.MaxRetryBudget != nil {
		cfg.MaxRetryBudget = min(*req.MaxRetryBudget, s.cfg.MaxRetryBudget)
	}
	if req.BlendRadius != 0 {
		cfg.BlendRadius = req.BlendRadius
	}
	return cfg, nil
}

// Generate builds and stores the level for req. Levels are identified by
// their config, so a repeated request returns the stored level.
func (s *LevelService) Generate(ctx context.Context, req models.GenerateRequest) (*generation.LevelData, error) {
	cfg, err := s.Config(req)
	if err != nil {
		return nil, err
	}

	id := generation.LevelID(cfg)
	if level, err := s.Get(id); err == nil {
		return level, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Printf("Warning: lookup of level %s failed, regenerating: %v", id, err)
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var res generation.Result
	select {
	case res = <-s.generator.GenerateAsync(ctx, cfg):
	case <-ctx.Done():
		return nil, fmt.Errorf("generation of level %s: %w", id, ctx.Err())
	}
	if res.Err != nil {
		return nil, res.Err
	}

	if err := s.storage.SaveLevel(res.Level); err != nil {
		return nil, fmt.Errorf("failed to store level %s: %w", id, err)
	}
	s.remember(res.Level)
	return res.Level, nil
}

// Get returns a level from the cache or the store
func (s *LevelService) Get(id string) (*generation.LevelData, error) {
	if level, ok := s.cached(id); ok {
		return level, nil
	}
	level, err := s.storage.LoadLevel(id)
	if err != nil {
		return nil, err
	}
	s.remember(level)
	return level, nil
}

// List returns the stored level records
func (s *LevelService) List() ([]store.LevelRecord, error) {
	return s.storage.ListLevels()
}

// Viewport renders the part of a level around center
func (s *LevelService) Viewport(id string, center *models.Position, width, height int) (*models.ViewportData, error) {
	level, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	ms := NewMapService(level)
	pos := ms.GetSpawnPoint()
	if center != nil {
		pos = *center
	}
	return ms.GetViewport(pos, width, height), nil
}

// Explore takes one step through a level and reports what the player sees
func (s *LevelService) Explore(id string, req models.ExploreRequest) (*models.ExploreState, error) {
	level, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	ms := NewMapService(level)
	gs := NewGameService(ms)

	before := ms.GetRoomAt(req.Position)
	newPos, err := gs.Move(req.Position, req.Direction)
	if err != nil {
		return nil, err
	}

	state := &models.ExploreState{
		LevelID:  id,
		Position: newPos,
		Viewport: ms.GetViewport(newPos, req.Width, req.Height),
	}
	if after := state.Viewport.CurrentRoom; after != nil && (before == nil || before.ID != after.ID) {
		state.Visited = []int{after.ID}
	}
	return state, nil
}

func (s *LevelService) cached(id string) (*generation.LevelData, bool) {
	if s.cache == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(id)
}

func (s *LevelService) remember(level *generation.LevelData) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	s.cache.Put(level.ID(), level)
	s.mu.Unlock()
}
