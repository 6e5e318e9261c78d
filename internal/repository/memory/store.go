package memory

import (
	"context"
	"sync"

	"shiftbot/internal/domain"
)

// Store — domain.RowStore в памяти: подменное хранилище для тестов и
// локального прогона без внешнего бэкенда. Повторяет контракт адаптеров:
// не более одной строки на дату, порядок строк — порядок добавления.
type Store struct {
	mu     sync.Mutex
	nextID int
	rows   []domain.Row
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) FindByDate(_ context.Context, date string) (*domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.Values[domain.ColDate-1] == date {
			cp := cloneRow(row)
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) AppendRow(_ context.Context, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cells := make([]string, domain.ColumnCount)
	copy(cells, values)
	for _, row := range s.rows {
		if row.Values[domain.ColDate-1] == cells[domain.ColDate-1] {
			return domain.ErrDuplicateKey
		}
	}
	s.rows = append(s.rows, domain.Row{Index: s.nextID, Values: cells})
	s.nextID++
	return nil
}

func (s *Store) UpdateCell(_ context.Context, row, column int, value string) error {
	if column < 1 || column > domain.ColumnCount {
		return domain.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].Index == row {
			s.rows[i].Values[column-1] = value
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) DeleteRow(_ context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].Index == row {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) GetAllRows(_ context.Context) ([]domain.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.Row, 0, len(s.rows))
	for _, row := range s.rows {
		result = append(result, cloneRow(row))
	}
	return result, nil
}

func cloneRow(row domain.Row) domain.Row {
	cells := make([]string, len(row.Values))
	copy(cells, row.Values)
	return domain.Row{Index: row.Index, Values: cells}
}
