// Package sqlite persists chat turns to a local SQLite database. It is
// the durable copy behind the in-process vector memory: every appended
// turn is recorded here, and the in-process store is rebuilt from this
// database on startup so history survives restarts.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/camber-labs/ragdesk/internal/adapters/driven/memory/sqlite/migrations"
	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.MemoryArchive = (*Sink)(nil)

// Sink is a SQLite-backed MemoryArchive.
type Sink struct {
	db   *sql.DB
	path string
}

// NewSink opens the turn database in dataDir, creating it and running
// migrations as needed. If dataDir is empty, defaults to
// ~/.ragdesk/data/memory.db.
func NewSink(dataDir string) (*Sink, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ragdesk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memory.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Sink{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Sink) Path() string {
	return s.path
}

// Record persists one turn.
func (s *Sink) Record(ctx context.Context, turn domain.ChatTurn) error {
	if err := turn.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (id, user_id, session_id, role, text, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, turn.ID, turn.UserID, turn.SessionID, turn.Role.String(), turn.Text,
		float32SliceToBytes(turn.Embedding), turn.Timestamp.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("recording turn: %w", err)
	}
	return nil
}

// History returns a user's most recent turns, newest first, up to limit.
func (s *Sink) History(ctx context.Context, userID string, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_id, role, text, embedding, created_at
		FROM turns
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

// All returns every recorded turn, oldest first. The in-process memory
// store is rebuilt from this on startup.
func (s *Sink) All(ctx context.Context) ([]domain.ChatTurn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, session_id, role, text, embedding, created_at
		FROM turns
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

// Prune evicts turns per the policy, mirroring the in-process store's
// semantics: age eviction drops turns older than MaxAge, then count
// eviction keeps the MaxTurns most recent per user.
func (s *Sink) Prune(ctx context.Context, policy domain.PrunePolicy) (int, error) {
	turns, err := s.All(ctx)
	if err != nil {
		return 0, err
	}

	byUser := make(map[string][]domain.ChatTurn)
	for _, turn := range turns {
		if policy.UserID != "" && turn.UserID != policy.UserID {
			continue
		}
		byUser[turn.UserID] = append(byUser[turn.UserID], turn)
	}

	var doomed []string
	for _, userTurns := range byUser {
		doomed = append(doomed, doomedIDs(userTurns, policy)...)
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning prune: %w", err)
	}
	for _, id := range doomed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE id = ?`, id); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("deleting turn %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing prune: %w", err)
	}
	return len(doomed), nil
}

// Clear removes all turns for one user, or every user when userID is
// empty.
func (s *Sink) Clear(ctx context.Context, userID string) (int, error) {
	var (
		res sql.Result
		err error
	)
	if userID == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM turns`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM turns WHERE user_id = ?`, userID)
	}
	if err != nil {
		return 0, fmt.Errorf("clearing turns: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared turns: %w", err)
	}
	return int(n), nil
}

// doomedIDs applies the policy to one user's turns, oldest first.
func doomedIDs(turns []domain.ChatTurn, policy domain.PrunePolicy) []string {
	var doomed []string
	kept := make([]domain.ChatTurn, 0, len(turns))
	if policy.MaxAge > 0 {
		cutoff := time.Now().Add(-policy.MaxAge)
		for _, turn := range turns {
			if turn.Timestamp.After(cutoff) {
				kept = append(kept, turn)
			} else {
				doomed = append(doomed, turn.ID)
			}
		}
	} else {
		kept = append(kept, turns...)
	}
	if policy.MaxTurns > 0 && len(kept) > policy.MaxTurns {
		for _, turn := range kept[:len(kept)-policy.MaxTurns] {
			doomed = append(doomed, turn.ID)
		}
	}
	return doomed
}

// scanTurns reads rows produced by the turn SELECTs.
func scanTurns(rows *sql.Rows) ([]domain.ChatTurn, error) {
	var turns []domain.ChatTurn
	for rows.Next() {
		var (
			turn      domain.ChatTurn
			role      string
			embedding []byte
			createdAt string
		)
		if err := rows.Scan(&turn.ID, &turn.UserID, &turn.SessionID, &role, &turn.Text, &embedding, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turn.Role = domain.Role(role)
		turn.Embedding = bytesToFloat32Slice(embedding)
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			turn.Timestamp = ts
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}
	return turns, nil
}

// migrate runs all pending migrations.
func (s *Sink) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_turns.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes serialises an embedding as little-endian float32
// bits. Nil embeddings map to nil so the column stays NULL.
func float32SliceToBytes(floats []float32) []byte {
	if floats == nil {
		return nil
	}
	bytes := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(bytes[i*4:], math.Float32bits(f))
	}
	return bytes
}

// bytesToFloat32Slice deserialises a little-endian float32 blob.
func bytesToFloat32Slice(bytes []byte) []float32 {
	if len(bytes) == 0 {
		return nil
	}
	floats := make([]float32, len(bytes)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(bytes[i*4:]))
	}
	return floats
}
