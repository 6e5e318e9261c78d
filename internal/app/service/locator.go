package service

import (
	"context"

	"shiftbot/internal/domain"
)

// Locator разрешает дату в строку хранилища. Сравнение дат — строгое
// строковое по каноничному ДД.ММ.ГГГГ; валидность формата проверяет
// вызывающая сторона, локатор отвечает только за наличие.
type Locator struct {
	Store domain.RowStore
}

func NewLocator(store domain.RowStore) *Locator {
	return &Locator{Store: store}
}

// Exists сообщает, есть ли запись на дату.
func (l *Locator) Exists(ctx context.Context, date string) (bool, error) {
	row, err := l.Store.FindByDate(ctx, date)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}

// Find возвращает запись и номер её строки. Отсутствие — (nil, 0, nil).
func (l *Locator) Find(ctx context.Context, date string) (*domain.ShiftRecord, int, error) {
	row, err := l.Store.FindByDate(ctx, date)
	if err != nil {
		return nil, 0, err
	}
	if row == nil {
		return nil, 0, nil
	}
	rec := domain.FromRow(row.Values)
	return &rec, row.Index, nil
}

// Create добавляет новую строку; на занятую дату отвечает ErrDuplicateKey.
func (l *Locator) Create(ctx context.Context, rec domain.ShiftRecord) error {
	existing, err := l.Store.FindByDate(ctx, rec.Date)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicateKey
	}
	return l.Store.AppendRow(ctx, rec.ToRow())
}

// Delete удаляет строку по дате; на отсутствующую — ErrNotFound.
func (l *Locator) Delete(ctx context.Context, date string) error {
	row, err := l.Store.FindByDate(ctx, date)
	if err != nil {
		return err
	}
	if row == nil {
		return domain.ErrNotFound
	}
	return l.Store.DeleteRow(ctx, row.Index)
}
