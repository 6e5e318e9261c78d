package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Форматы хранения: дата ДД.ММ.ГГГГ, время ЧЧ:ММ, числа с точкой и двумя знаками.
const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04"
)

// Бизнес-константы расчёта прибыли.
const (
	HourlyRate     = 220
	RevenueFeeRate = "0.015"
)

// Фиксированная раскладка колонок хранилища.
const (
	ColDate = iota + 1
	ColStart
	ColEnd
	ColHours
	ColRevenue
	ColTips
	ColProfit

	ColumnCount = 7
)

// Field — редактируемое сырое поле записи.
type Field string

const (
	FieldStart   Field = "start"
	FieldEnd     Field = "end"
	FieldRevenue Field = "revenue"
	FieldTips    Field = "tips"
)

// Column возвращает номер колонки поля или 0 для неизвестного поля.
func (f Field) Column() int {
	switch f {
	case FieldStart:
		return ColStart
	case FieldEnd:
		return ColEnd
	case FieldRevenue:
		return ColRevenue
	case FieldTips:
		return ColTips
	}
	return 0
}

// ShiftRecord — одна смена, ключ — дата. Все значения хранятся текстом,
// пустая строка означает "ещё не введено".
type ShiftRecord struct {
	Date    string
	Start   string
	End     string
	Hours   string
	Revenue string
	Tips    string
	Profit  string
}

// FromRow собирает запись из строки хранилища (порядок колонок фиксирован).
func FromRow(values []string) ShiftRecord {
	cells := make([]string, ColumnCount)
	copy(cells, values)
	return ShiftRecord{
		Date:    cells[ColDate-1],
		Start:   cells[ColStart-1],
		End:     cells[ColEnd-1],
		Hours:   cells[ColHours-1],
		Revenue: cells[ColRevenue-1],
		Tips:    cells[ColTips-1],
		Profit:  cells[ColProfit-1],
	}
}

// ToRow раскладывает запись обратно в строку хранилища.
func (r ShiftRecord) ToRow() []string {
	return []string{r.Date, r.Start, r.End, r.Hours, r.Revenue, r.Tips, r.Profit}
}

// Raw возвращает значение сырого поля.
func (r ShiftRecord) Raw(f Field) string {
	switch f {
	case FieldStart:
		return r.Start
	case FieldEnd:
		return r.End
	case FieldRevenue:
		return r.Revenue
	case FieldTips:
		return r.Tips
	}
	return ""
}

// SetRaw записывает значение сырого поля.
func (r *ShiftRecord) SetRaw(f Field, value string) {
	switch f {
	case FieldStart:
		r.Start = value
	case FieldEnd:
		r.End = value
	case FieldRevenue:
		r.Revenue = value
	case FieldTips:
		r.Tips = value
	}
}

// ValidateDate проверяет каноничность даты: парсится и совпадает с ДД.ММ.ГГГГ.
func ValidateDate(s string) error {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return &FormatError{Kind: "дата", Input: s, Want: "ДД.ММ.ГГГГ"}
	}
	return nil
}

// ValidateTime проверяет время ЧЧ:ММ (00:00–23:59).
func ValidateTime(s string) error {
	t, err := time.Parse(TimeLayout, s)
	if err != nil || t.Format(TimeLayout) != s {
		return &FormatError{Kind: "время", Input: s, Want: "ЧЧ:ММ"}
	}
	return nil
}

// ParseNumber разбирает число с точкой или запятой в качестве разделителя.
func ParseNumber(s string) (decimal.Decimal, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.Zero, &FormatError{Kind: "число", Input: s, Want: "например 1234.50"}
	}
	return d, nil
}

// NumberOrZero — то же, но пустые и нечитаемые значения считаются нулём:
// незаполненные выручка/чай — нормальное состояние записи.
func NumberOrZero(s string) decimal.Decimal {
	d, err := ParseNumber(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatNumber приводит число к хранимому виду: точка, два знака после неё.
func FormatNumber(d decimal.Decimal) string {
	return d.StringFixed(2)
}
