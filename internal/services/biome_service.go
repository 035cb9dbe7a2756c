package services

import (
	"fmt"

	"brawler.dev/levelgen/internal/generation"
	"brawler.dev/levelgen/internal/models"
)

// BiomeService exposes the biome catalog
type BiomeService struct {
	catalog *generation.BiomeCatalog
}

// NewBiomeService creates a new BiomeService
func NewBiomeService(catalog *generation.BiomeCatalog) *BiomeService {
	return &BiomeService{catalog: catalog}
}

// GetAll returns every biome in id order
func (s *BiomeService) GetAll() []models.BiomeSummary {
	all := s.catalog.All()
	out := make([]models.BiomeSummary, 0, len(all))
	for _, b := range all {
		out = append(out, summarize(b))
	}
	return out
}

// GetByID returns a specific biome by ID
func (s *BiomeService) GetByID(id string) (*models.BiomeSummary, error) {
	b, ok := s.catalog.Get(generation.BiomeID(id))
	if !ok {
		return nil, fmt.Errorf("biome not found: %s", id)
	}
	summary := summarize(b)
	return &summary, nil
}

func summarize(b *generation.Biome) models.BiomeSummary {
	s := models.BiomeSummary{
		ID:      string(b.ID),
		Name:    b.Name,
		Code:    b.Code,
		Boss:    b.Boss,
		Enemies: []string{},
		Items:   []string{},
	}
	for _, e := range b.Spawns {
		if e.Category == generation.SpawnItem {
			s.Items = append(s.Items, e.Kind)
		} else {
			s.Enemies = append(s.Enemies, e.Kind)
		}
	}
	for _, k := range b.Excludes {
		s.Excludes = append(s.Excludes, string(k))
	}
	return s
}
