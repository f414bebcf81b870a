package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/denisok6893-rgb/property-recommender/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// EnsureSchema creates the candidates table. zone_key holds the Unicode
// lower-cased zone, since SQLite's lower() only folds ASCII.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS candidates (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL DEFAULT '',
  zone TEXT NOT NULL DEFAULT '',
  zone_key TEXT NOT NULL DEFAULT '',
  property_type TEXT NOT NULL DEFAULT '',
  lat REAL NOT NULL DEFAULT 0,
  lon REAL NOT NULL DEFAULT 0,
  price REAL,
  currency TEXT NOT NULL DEFAULT '',
  physical_json TEXT NOT NULL DEFAULT '{}',
  building_json TEXT NOT NULL DEFAULT '{}',
  distances_json TEXT NOT NULL DEFAULT '{}'
);
`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_candidates_zone ON candidates(zone_key);`); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_candidates_price ON candidates(price);`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) CountCandidates(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM candidates`).Scan(&n)
	return n, err
}

const insertColumns = `(id, title, zone, zone_key, property_type, lat, lon, price, currency, physical_json, building_json, distances_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `SELECT id, title, zone, property_type, lat, lon, price, currency, physical_json, building_json, distances_json FROM candidates`

// UpsertMany inserts a dataset without duplicating by id.
func (s *SQLiteStore) UpsertMany(ctx context.Context, items []domain.Candidate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO candidates `+insertColumns)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range items {
		args, err := insertArgs(c)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert candidate %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateCandidate(ctx context.Context, c domain.Candidate) (domain.Candidate, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	args, err := insertArgs(c)
	if err != nil {
		return domain.Candidate{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO candidates `+insertColumns, args...)
	return c, err
}

func (s *SQLiteStore) DeleteCandidate(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidates WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (s *SQLiteStore) GetCandidate(ctx context.Context, id string) (domain.Candidate, bool, error) {
	c, err := scanCandidate(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Candidate{}, false, nil
	}
	if err != nil {
		return domain.Candidate{}, false, err
	}
	return c, true, nil
}

// ListFilter narrows a candidate listing. Prices compare the stored amount
// in its own unit.
type ListFilter struct {
	Limit    int
	Offset   int
	Zone     string
	MinPrice float64
	MaxPrice float64
	Sort     string // "price_asc", "price_desc", default by id
}

func (s *SQLiteStore) ListCandidates(ctx context.Context, f ListFilter) ([]domain.Candidate, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if z := zoneKey(f.Zone); z != "" {
		where = append(where, "zone_key LIKE '%' || ? || '%'")
		args = append(args, z)
	}
	if f.MinPrice > 0 {
		where = append(where, "price >= ?")
		args = append(args, f.MinPrice)
	}
	if f.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, f.MaxPrice)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	orderSQL := " ORDER BY id"
	switch f.Sort {
	case "price_asc":
		orderSQL = " ORDER BY price ASC, id"
	case "price_desc":
		orderSQL = " ORDER BY price DESC, id"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM candidates"+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rowsArgs := append(append([]any{}, args...), f.Limit, f.Offset)
	out, err := s.query(ctx, selectColumns+whereSQL+orderSQL+" LIMIT ? OFFSET ?", rowsArgs...)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Candidates pre-filters by zone and property type, which need no currency
// conversion. Everything else is left to the engine.
func (s *SQLiteStore) Candidates(ctx context.Context, p domain.PreferenceProfile) ([]domain.Candidate, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, len(p.Constraints.ZonesInclude)+len(p.Constraints.ZonesExclude)+1)

	if keys := zoneKeys(p.Constraints.ZonesInclude); len(keys) > 0 {
		where = append(where, "zone_key IN ("+placeholders(len(keys))+")")
		args = append(args, keys...)
	}
	if keys := zoneKeys(p.Constraints.ZonesExclude); len(keys) > 0 {
		where = append(where, "zone_key NOT IN ("+placeholders(len(keys))+")")
		args = append(args, keys...)
	}
	if t := strings.TrimSpace(p.Constraints.PropertyType); t != "" {
		where = append(where, "LOWER(property_type) = LOWER(?)")
		args = append(args, t)
	}

	q := selectColumns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return s.query(ctx, q+" ORDER BY id", args...)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]domain.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(r rowScanner) (domain.Candidate, error) {
	var (
		c                                    domain.Candidate
		price                                sql.NullFloat64
		physicalJSON, buildingJSON, distJSON string
	)
	if err := r.Scan(
		&c.ID, &c.Title, &c.Zone, &c.PropertyType, &c.Location.Lat, &c.Location.Lon,
		&price, &c.Price.Currency, &physicalJSON, &buildingJSON, &distJSON,
	); err != nil {
		return domain.Candidate{}, err
	}
	if price.Valid {
		c.Price.Amount = domain.Some(price.Float64)
	}
	if err := json.Unmarshal([]byte(physicalJSON), &c.Physical); err != nil {
		return domain.Candidate{}, fmt.Errorf("decode physical of %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(buildingJSON), &c.Building); err != nil {
		return domain.Candidate{}, fmt.Errorf("decode building of %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(distJSON), &c.Distances); err != nil {
		return domain.Candidate{}, fmt.Errorf("decode distances of %s: %w", c.ID, err)
	}
	return c, nil
}

func insertArgs(c domain.Candidate) ([]any, error) {
	physical, err := json.Marshal(c.Physical)
	if err != nil {
		return nil, fmt.Errorf("encode physical: %w", err)
	}
	building, err := json.Marshal(c.Building)
	if err != nil {
		return nil, fmt.Errorf("encode building: %w", err)
	}
	dist, err := json.Marshal(c.Distances)
	if err != nil {
		return nil, fmt.Errorf("encode distances: %w", err)
	}

	var price sql.NullFloat64
	if v, ok := c.Price.Amount.Get(); ok {
		price = sql.NullFloat64{Float64: v, Valid: true}
	}
	return []any{
		c.ID, c.Title, c.Zone, zoneKey(c.Zone), c.PropertyType, c.Location.Lat, c.Location.Lon,
		price, c.Price.Currency, string(physical), string(building), string(dist),
	}, nil
}

func zoneKey(z string) string {
	return strings.ToLower(strings.TrimSpace(z))
}

func zoneKeys(zones []string) []any {
	out := make([]any, 0, len(zones))
	for _, z := range zones {
		if k := zoneKey(z); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
