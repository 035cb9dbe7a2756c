package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"brawler.dev/levelgen/internal/config"
	"brawler.dev/levelgen/internal/generation"
)

func generate(t *testing.T, seed uint64) *generation.LevelData {
	t.Helper()
	level, err := generation.GenerateLevel(generation.DefaultConfig(seed))
	if err != nil {
		t.Fatalf("GenerateLevel(%d): %v", seed, err)
	}
	return level
}

func TestJSONStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "levels.json")
	js, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	defer js.Close()

	level := generate(t, 3)
	if err := js.SaveLevel(level); err != nil {
		t.Fatalf("SaveLevel: %v", err)
	}

	loaded, err := js.LoadLevel(level.ID())
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	want, _ := json.Marshal(level)
	got, _ := json.Marshal(loaded)
	if !bytes.Equal(want, got) {
		t.Error("loaded level differs from the saved one")
	}

	if _, err := js.LoadLevel("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestJSONStorePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.json")
	js, err := NewJSONStore(path)
	if err != nil {
		t.Fatal(err)
	}
	a, b := generate(t, 10), generate(t, 11)
	for _, l := range []*generation.LevelData{a, b, a} {
		if err := js.SaveLevel(l); err != nil {
			t.Fatal(err)
		}
	}

	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	records, err := reopened.ListLevels()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("%d records, want 2", len(records))
	}
	var rec LevelRecord
	for _, r := range records {
		if r.ID == a.ID() {
			rec = r
		}
	}
	if rec.Seed != 10 || rec.Rooms != len(a.Rooms()) || rec.Width != 64 {
		t.Errorf("record = %+v", rec)
	}
	if _, err := reopened.LoadLevel(b.ID()); err != nil {
		t.Errorf("LoadLevel after reopen: %v", err)
	}
}

func TestJSONStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONStore(path); err == nil {
		t.Error("expected an error for a corrupt store file")
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(config.StorageConfig{Driver: "json", JSONPath: filepath.Join(t.TempDir(), "l.json")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.(*JSONStore); !ok {
		t.Errorf("Open returned %T", s)
	}
	if _, err := Open(config.StorageConfig{Driver: "bolt"}); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}
