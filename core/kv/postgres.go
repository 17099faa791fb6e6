package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/BitmanAlan/xiaohongshu/core/db"
)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type postgresStore struct {
	db    *db.DB
	table string
}

// NewPostgresStore returns a Store over a single (key text, value jsonb) table.
// Call EnsureSchema once at startup.
func NewPostgresStore(database *db.DB, table string) (Store, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid kv table name %q", table)
	}
	return &postgresStore{
		db:    database,
		table: pgx.Identifier{table}.Sanitize(),
	}, nil
}

// EnsureSchema creates the kv table when missing.
func EnsureSchema(ctx context.Context, s Store) error {
	ps, ok := s.(*postgresStore)
	if !ok {
		return nil
	}
	_, err := ps.db.Pool().Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, ps.table))
	if err != nil {
		return fmt.Errorf("creating kv table: %w", err)
	}
	return nil
}

func (s *postgresStore) Get(ctx context.Context, key string, dest any) error {
	var raw []byte
	err := s.db.Pool().QueryRow(ctx,
		fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table), key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("postgres get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = s.db.Pool().Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`, s.table),
		key, raw)
	if err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Create(ctx context.Context, key string, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", key, err)
	}
	var inserted string
	err = s.db.Pool().QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
		RETURNING key`, s.table), key, raw).Scan(&inserted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("postgres create %s: %w", key, err)
	}
	return true, nil
}

func (s *postgresStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := s.db.Pool().Query(ctx,
		fmt.Sprintf(`SELECT key, value FROM %s WHERE key LIKE $1 ESCAPE '\' ORDER BY key`, s.table),
		likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			key string
			raw []byte
		)
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
		}
		entries = append(entries, Entry{Key: key, Value: raw})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres scan %s: %w", prefix, err)
	}
	return entries, nil
}

func (s *postgresStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		var current []byte
		err := tx.QueryRow(ctx,
			fmt.Sprintf(`SELECT value FROM %s WHERE key = $1 FOR UPDATE`, s.table), key).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("postgres lock %s: %w", key, err)
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET value = $2, updated_at = now() WHERE key = $1`, s.table),
			key, next); err != nil {
			return fmt.Errorf("postgres update %s: %w", key, err)
		}
		return nil
	})
}

func (s *postgresStore) Incr(ctx context.Context, key string, delta int64) (int64, error) {
	var n int64
	err := s.db.Pool().QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %[1]s (key, value) VALUES ($1, to_jsonb($2::bigint))
		ON CONFLICT (key) DO UPDATE
			SET value = to_jsonb((%[1]s.value #>> '{}')::bigint + $2::bigint), updated_at = now()
		RETURNING (value #>> '{}')::bigint`, s.table), key, delta).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("postgres incr %s: %w", key, err)
	}
	return n, nil
}

func (s *postgresStore) Counter(ctx context.Context, key string) (int64, error) {
	var n int64
	err := s.db.Pool().QueryRow(ctx,
		fmt.Sprintf(`SELECT (value #>> '{}')::bigint FROM %s WHERE key = $1`, s.table), key).Scan(&n)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("postgres counter %s: %w", key, err)
	}
	return n, nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Pool().Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table), key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Ping(ctx context.Context) error {
	return s.db.Pool().Ping(ctx)
}

func (s *postgresStore) Close() error {
	s.db.Close()
	return nil
}
