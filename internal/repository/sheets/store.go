package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"shiftbot/internal/domain"
)

// Заголовок листа, первая строка. Данные начинаются со второй.
var header = []string{"дата", "начало", "конец", "часы", "выручка", "чай", "прибыль"}

// Store реализует domain.RowStore поверх листа Google Sheets. Номер строки
// в Row.Index — реальный номер строки листа (заголовок — строка 1).
// Консистентность у бэкенда eventual, поэтому ядро перечитывает значения
// после записи — адаптер этого не скрывает.
type Store struct {
	srv           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
}

// New авторизуется по сервисному аккаунту и при необходимости записывает
// строку заголовка в пустой лист.
func New(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Store, error) {
	srv, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("авторизация в Google Sheets: %w", err)
	}

	meta, err := srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("чтение метаданных таблицы: %w", err)
	}
	var sheetID int64 = -1
	for _, sh := range meta.Sheets {
		if sh.Properties.Title == sheetName {
			sheetID = sh.Properties.SheetId
			break
		}
	}
	if sheetID < 0 {
		return nil, fmt.Errorf("лист %q не найден в таблице", sheetName)
	}

	s := &Store{srv: srv, spreadsheetID: spreadsheetID, sheetName: sheetName, sheetID: sheetID}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureHeader(ctx context.Context) error {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.rng("A1:G1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("чтение заголовка: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetID, s.rng("A1:G1"),
		&sheetsapi.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (s *Store) rng(a1 string) string {
	return fmt.Sprintf("'%s'!%s", s.sheetName, a1)
}

// colLetter переводит номер колонки (1..7) в букву листа.
func colLetter(column int) string {
	return string(rune('A' + column - 1))
}

func cellText(v interface{}) string {
	return strings.TrimSpace(fmt.Sprint(v))
}

func (s *Store) FindByDate(ctx context.Context, date string) (*domain.Row, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.rng("A:A")).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	for i, row := range resp.Values {
		if i == 0 {
			continue // заголовок
		}
		if len(row) > 0 && cellText(row[0]) == date {
			return s.readRow(ctx, i+1)
		}
	}
	return nil, nil
}

func (s *Store) readRow(ctx context.Context, index int) (*domain.Row, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID,
		s.rng(fmt.Sprintf("A%d:G%d", index, index))).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	cells := make([]string, domain.ColumnCount)
	if len(resp.Values) > 0 {
		for i, v := range resp.Values[0] {
			if i < domain.ColumnCount {
				cells[i] = cellText(v)
			}
		}
	}
	return &domain.Row{Index: index, Values: cells}, nil
}

func (s *Store) AppendRow(ctx context.Context, values []string) error {
	cells := make([]interface{}, domain.ColumnCount)
	for i := range cells {
		cells[i] = ""
	}
	for i, v := range values {
		if i < domain.ColumnCount {
			cells[i] = v
		}
	}
	_, err := s.srv.Spreadsheets.Values.Append(s.spreadsheetID, s.rng("A:G"),
		&sheetsapi.ValueRange{Values: [][]interface{}{cells}}).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (s *Store) UpdateCell(ctx context.Context, row, column int, value string) error {
	if column < 1 || column > domain.ColumnCount {
		return fmt.Errorf("неизвестная колонка %d", column)
	}
	cell := fmt.Sprintf("%s%d", colLetter(column), row)
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, s.rng(cell+":"+cell),
		&sheetsapi.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").Context(ctx).Do()
	return err
}

func (s *Store) DeleteRow(ctx context.Context, row int) error {
	_, err := s.srv.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}).Context(ctx).Do()
	return err
}

func (s *Store) GetAllRows(ctx context.Context) ([]domain.Row, error) {
	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetID, s.rng("A2:G")).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	var result []domain.Row
	for i, row := range resp.Values {
		cells := make([]string, domain.ColumnCount)
		for j, v := range row {
			if j < domain.ColumnCount {
				cells[j] = cellText(v)
			}
		}
		if cells[domain.ColDate-1] == "" {
			continue
		}
		result = append(result, domain.Row{Index: i + 2, Values: cells})
	}
	return result, nil
}
