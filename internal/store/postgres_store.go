package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/lib/pq"

	"brawler.dev/levelgen/internal/generation"
)

// PostgresStore handles level persistence using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database and creates the schema
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	// seed is TEXT because uint64 does not fit BIGINT
	schema := `
	CREATE TABLE IF NOT EXISTS levels (
		id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		algorithm TEXT NOT NULL,
		biomes TEXT[] NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		rooms INTEGER NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := ps.db.Exec(schema)
	return err
}

// SaveLevel upserts a level by id
func (ps *PostgresStore) SaveLevel(level *generation.LevelData) error {
	raw, err := level.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}
	record := NewRecord(level)

	query := `
	INSERT INTO levels (id, seed, algorithm, biomes, width, height, rooms, data)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id)
	DO UPDATE SET
		data = $8,
		updated_at = NOW()
	`

	_, err = ps.db.Exec(query,
		record.ID, strconv.FormatUint(record.Seed, 10), string(record.Algorithm),
		pq.Array(biomeStrings(record.Biomes)), record.Width, record.Height, record.Rooms,
		string(raw))
	if err != nil {
		return fmt.Errorf("failed to save level: %w", err)
	}
	return nil
}

// LoadLevel loads a level by id
func (ps *PostgresStore) LoadLevel(id string) (*generation.LevelData, error) {
	var raw string
	err := ps.db.QueryRow(`SELECT data FROM levels WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("level %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load level: %w", err)
	}

	level, err := generation.LevelFromJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode level %s: %w", id, err)
	}
	return level, nil
}

// ListLevels returns every stored level, oldest first
func (ps *PostgresStore) ListLevels() ([]LevelRecord, error) {
	rows, err := ps.db.Query(`
	SELECT id, seed, algorithm, biomes, width, height, rooms, created_at
	FROM levels ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	records := []LevelRecord{}
	for rows.Next() {
		var (
			r      LevelRecord
			seed   string
			alg    string
			biomes []string
		)
		if err := rows.Scan(&r.ID, &seed, &alg, pq.Array(&biomes), &r.Width, &r.Height, &r.Rooms, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan level row: %w", err)
		}
		r.Seed, err = strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("level %s has a malformed seed: %w", r.ID, err)
		}
		r.Algorithm = generation.AlgorithmKind(alg)
		for _, b := range biomes {
			r.Biomes = append(r.Biomes, generation.BiomeID(b))
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database connection
func (ps *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return ps.db.Close()
}

func biomeStrings(ids []generation.BiomeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
