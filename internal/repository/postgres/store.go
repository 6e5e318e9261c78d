package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shiftbot/internal/domain"
)

var columnNames = map[int]string{
	domain.ColDate:    "date",
	domain.ColStart:   "start_time",
	domain.ColEnd:     "end_time",
	domain.ColHours:   "hours",
	domain.ColRevenue: "revenue",
	domain.ColTips:    "tips",
	domain.ColProfit:  "profit",
}

// Store реализует domain.RowStore поверх Postgres. Схема и текстовое
// хранение совпадают с sqlite-адаптером, различается только диалект.
type Store struct {
	pool *pgxpool.Pool
}

// New подключается к базе по DSN и готовит схему.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("разбор DATABASE_URL: %w", err)
	}
	cfg.MaxConns = 4

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(connCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("подключение к Postgres: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("миграция: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shifts (
    id SERIAL PRIMARY KEY,
    date TEXT NOT NULL UNIQUE,
    start_time TEXT NOT NULL DEFAULT '',
    end_time TEXT NOT NULL DEFAULT '',
    hours TEXT NOT NULL DEFAULT '',
    revenue TEXT NOT NULL DEFAULT '',
    tips TEXT NOT NULL DEFAULT '',
    profit TEXT NOT NULL DEFAULT ''
)`)
	return err
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) FindByDate(ctx context.Context, date string) (*domain.Row, error) {
	var (
		id    int
		cells = make([]string, domain.ColumnCount)
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, date, start_time, end_time, hours, revenue, tips, profit FROM shifts WHERE date = $1`,
		date,
	).Scan(&id, &cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5], &cells[6])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Row{Index: id, Values: cells}, nil
}

func (s *Store) AppendRow(ctx context.Context, values []string) error {
	cells := make([]string, domain.ColumnCount)
	copy(cells, values)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO shifts (date, start_time, end_time, hours, revenue, tips, profit) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		cells[0], cells[1], cells[2], cells[3], cells[4], cells[5], cells[6],
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateKey
	}
	return err
}

func (s *Store) UpdateCell(ctx context.Context, row, column int, value string) error {
	name, ok := columnNames[column]
	if !ok {
		return fmt.Errorf("неизвестная колонка %d", column)
	}
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE shifts SET %s = $1 WHERE id = $2`, name), value, row)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, row int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, row)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) GetAllRows(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, date, start_time, end_time, hours, revenue, tips, profit FROM shifts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Row
	for rows.Next() {
		var (
			id    int
			cells = make([]string, domain.ColumnCount)
		)
		if err := rows.Scan(&id, &cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5], &cells[6]); err != nil {
			return nil, err
		}
		result = append(result, domain.Row{Index: id, Values: cells})
	}
	return result, rows.Err()
}
