package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/athebyme/shopify-color-relay/pkg/models"
)

// Schema таблица строк дескрипторов; table_name соответствует имени таблицы цвета
const Schema = `
CREATE TABLE IF NOT EXISTS descriptor_rows (
	table_name TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	row_key    TEXT    NOT NULL,
	value      TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (table_name, position)
)`

type executor interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

// PostgresTable хранит таблицы дескрипторов в PostgreSQL
type PostgresTable struct {
	pool *pgxpool.Pool
	db   executor
}

// NewPostgresTable подключается к PostgreSQL по строке подключения
func NewPostgresTable(ctx context.Context, connectionString string) (*PostgresTable, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresTable{pool: pool, db: pool}, nil
}

// NewPostgresTableWithPool использует готовый пул
func NewPostgresTableWithPool(ctx context.Context, pool *pgxpool.Pool) (*PostgresTable, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresTable{pool: pool, db: pool}, nil
}

// EnsureSchema создает таблицу descriptor_rows, если ее нет
func (p *PostgresTable) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create descriptor_rows: %w", err)
	}
	return nil
}

// Rows возвращает строки таблицы в порядке position
func (p *PostgresTable) Rows(ctx context.Context, table string) ([]models.TableRow, error) {
	const query = `
		SELECT row_key, value
		FROM descriptor_rows
		WHERE table_name = $1
		ORDER BY position`

	rows, err := p.db.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %q: %w", table, err)
	}

	result, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.TableRow])
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", table, err)
	}
	return result, nil
}

// Close закрывает пул соединений
func (p *PostgresTable) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
