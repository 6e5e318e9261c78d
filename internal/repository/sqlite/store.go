package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"shiftbot/internal/domain"
)

// Соответствие номера колонки имени столбца в таблице shifts.
var columnNames = map[int]string{
	domain.ColDate:    "date",
	domain.ColStart:   "start_time",
	domain.ColEnd:     "end_time",
	domain.ColHours:   "hours",
	domain.ColRevenue: "revenue",
	domain.ColTips:    "tips",
	domain.ColProfit:  "profit",
}

// Store реализует domain.RowStore поверх SQLite. Значения хранятся текстом,
// как в табличном бэкенде; rowid служит номером строки.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindByDate(ctx context.Context, date string) (*domain.Row, error) {
	var (
		id    int
		cells = make([]string, domain.ColumnCount)
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, start_time, end_time, hours, revenue, tips, profit FROM shifts WHERE date = ?`,
		date,
	).Scan(&id, &cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5], &cells[6])
	if errors.Is(err, sql.ErrNoRows) {
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
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shifts (date, start_time, end_time, hours, revenue, tips, profit) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cells[0], cells[1], cells[2], cells[3], cells[4], cells[5], cells[6],
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return domain.ErrDuplicateKey
	}
	return err
}

func (s *Store) UpdateCell(ctx context.Context, row, column int, value string) error {
	name, ok := columnNames[column]
	if !ok {
		return fmt.Errorf("неизвестная колонка %d", column)
	}
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE shifts SET %s = ? WHERE id = ?`, name), value, row)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, row int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, row)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) GetAllRows(ctx context.Context) ([]domain.Row, error) {
	rows, err := s.db.QueryContext(ctx,
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
