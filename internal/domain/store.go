package domain

import "context"

// Row — строка хранилища: значения в фиксированном порядке колонок и
// непрозрачный номер строки, по которому адресуются обновления.
type Row struct {
	Index  int
	Values []string
}

// RowStore — контракт адаптера хранилища (таблица Google, SQLite, Postgres).
// Адаптер гарантирует: не более одной строки на дату, адресуемость ячеек по
// колонке и видимость записи при последующем чтении. Отсутствие строки —
// штатный результат (nil, nil), а не ошибка.
type RowStore interface {
	FindByDate(ctx context.Context, date string) (*Row, error)
	AppendRow(ctx context.Context, values []string) error
	UpdateCell(ctx context.Context, row, column int, value string) error
	DeleteRow(ctx context.Context, row int) error
	// GetAllRows возвращает только строки данных (без заголовка),
	// в порядке добавления в хранилище.
	GetAllRows(ctx context.Context) ([]Row, error)
}
