package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/selfmenu/internal/domain"
	"github.com/hammamikhairi/selfmenu/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.SessionStore = (*SQLiteStore)(nil)
	_ domain.RecipeStore  = recipeView{}
)

//go:embed schema.sql
var schema string

// SQLiteStore persists the deck and the session keys in one SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

type ingredientRecord struct {
	Name    string `json:"name"`
	Count   string `json:"count,omitempty"`
	Comment string `json:"comment,omitempty"`
}

type stepRecord struct {
	Instruction  string `json:"instruction"`
	AlarmSeconds int64  `json:"alarm_seconds,omitempty"`
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the embedded schema.
func OpenSQLite(path string, log *logger.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	log.Debug("opened sqlite store at %s", path)
	return &SQLiteStore{db: db, log: log}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Set stores value under key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.log.Debug("set %s=%q", key, value)
	return nil
}

// Get returns the value for key, or domain.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	s.log.Debug("removed %s", key)
	return nil
}

// List returns every recipe ordered by deck position.
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, deck_index, name, ingredients, steps, times_cooked, mean_duration_seconds
		 FROM recipes ORDER BY deck_index, name`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return out, nil
}

// Recipes returns the RecipeStore view of the database.
func (s *SQLiteStore) Recipes() domain.RecipeStore {
	return recipeView{s}
}

// GetRecipe returns a recipe by ID.
func (s *SQLiteStore) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, deck_index, name, ingredients, steps, times_cooked, mean_duration_seconds
		 FROM recipes WHERE id = ?`, id)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return r, err
}

// Save inserts or replaces a recipe.
func (s *SQLiteStore) Save(ctx context.Context, r *domain.Recipe) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("recipe id is required")
	}
	ingredients := make([]ingredientRecord, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		ingredients = append(ingredients, ingredientRecord{Name: in.Name, Count: in.Count, Comment: in.Comment})
	}
	steps := make([]stepRecord, 0, len(r.Steps))
	for _, st := range r.Steps {
		steps = append(steps, stepRecord{Instruction: st.Instruction, AlarmSeconds: int64(st.Alarm / time.Second)})
	}
	ingJSON, err := json.Marshal(ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	stepJSON, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (id, deck_index, name, ingredients, steps, times_cooked, mean_duration_seconds, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   deck_index = excluded.deck_index,
		   name = excluded.name,
		   ingredients = excluded.ingredients,
		   steps = excluded.steps,
		   times_cooked = excluded.times_cooked,
		   mean_duration_seconds = excluded.mean_duration_seconds,
		   updated_at = excluded.updated_at`,
		r.ID, r.Index, r.Name, string(ingJSON), string(stepJSON),
		r.TimesCooked, r.MeanDurationSeconds, toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save recipe %s: %w", r.ID, err)
	}
	s.log.Debug("saved recipe %s (%s, cooked=%d, mean=%ds)", r.ID, r.Name, r.TimesCooked, r.MeanDurationSeconds)
	return nil
}

// Delete removes a recipe by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row scanner) (*domain.Recipe, error) {
	var (
		r        domain.Recipe
		ingJSON  string
		stepJSON string
	)
	if err := row.Scan(&r.ID, &r.Index, &r.Name, &ingJSON, &stepJSON, &r.TimesCooked, &r.MeanDurationSeconds); err != nil {
		return nil, err
	}

	var ingredients []ingredientRecord
	if err := json.Unmarshal([]byte(ingJSON), &ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients for %s: %w", r.ID, err)
	}
	var steps []stepRecord
	if err := json.Unmarshal([]byte(stepJSON), &steps); err != nil {
		return nil, fmt.Errorf("decode steps for %s: %w", r.ID, err)
	}
	for _, in := range ingredients {
		r.Ingredients = append(r.Ingredients, domain.Ingredient{Name: in.Name, Count: in.Count, Comment: in.Comment})
	}
	for _, st := range steps {
		r.Steps = append(r.Steps, domain.Step{Instruction: st.Instruction, Alarm: time.Duration(st.AlarmSeconds) * time.Second})
	}
	return &r, nil
}

// recipeView adapts SQLiteStore to domain.RecipeStore, whose Get would
// otherwise collide with the key-value Get.
type recipeView struct {
	s *SQLiteStore
}

func (v recipeView) List(ctx context.Context) ([]domain.Recipe, error) { return v.s.List(ctx) }

func (v recipeView) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	return v.s.GetRecipe(ctx, id)
}

func (v recipeView) Save(ctx context.Context, r *domain.Recipe) error { return v.s.Save(ctx, r) }

func (v recipeView) Delete(ctx context.Context, id string) error { return v.s.Delete(ctx, id) }
