package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"brawler.dev/levelgen/internal/generation"
)

// JSONStore handles level persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Levels map[string]*storedLevel `json:"levels"`
}

type storedLevel struct {
	Record LevelRecord     `json:"record"`
	Level  json.RawMessage `json:"level"`
}

// NewJSONStore opens the store at filePath, creating the file if needed
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Levels: make(map[string]*storedLevel),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create JSON store directory: %w", err)
		}
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Levels == nil {
		js.data.Levels = make(map[string]*storedLevel)
	}
	return nil
}

// saveToFile writes the whole database; callers hold the write lock
func (js *JSONStore) saveToFile() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(js.filePath, data, 0644)
}

// SaveLevel stores a level under its id, replacing any earlier copy
func (js *JSONStore) SaveLevel(level *generation.LevelData) error {
	raw, err := json.Marshal(level)
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	js.mutex.Lock()
	defer js.mutex.Unlock()

	record := NewRecord(level)
	if prev, ok := js.data.Levels[record.ID]; ok {
		record.CreatedAt = prev.Record.CreatedAt
	}
	js.data.Levels[record.ID] = &storedLevel{Record: record, Level: raw}
	return js.saveToFile()
}

// LoadLevel loads a level by id
func (js *JSONStore) LoadLevel(id string) (*generation.LevelData, error) {
	js.mutex.RLock()
	stored, exists := js.data.Levels[id]
	js.mutex.RUnlock()

	if !exists {
		return nil, fmt.Errorf("level %s: %w", id, ErrNotFound)
	}
	level, err := generation.LevelFromJSON(stored.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to decode level %s: %w", id, err)
	}
	return level, nil
}

// ListLevels returns every stored level, oldest first
func (js *JSONStore) ListLevels() ([]LevelRecord, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	records := make([]LevelRecord, 0, len(js.data.Levels))
	for _, stored := range js.data.Levels {
		records = append(records, stored.Record)
	}
	sortRecords(records)
	return records, nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}

func sortRecords(records []LevelRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}
