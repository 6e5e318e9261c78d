package service

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"shiftbot/internal/domain"
)

// ShiftService — операции над сменами поверх адаптера хранилища.
// Хранилище — источник истины: после записи сырых полей производные
// всегда выводятся из перечитанных значений, а не из памяти.
type ShiftService struct {
	Store   domain.RowStore
	Locator *Locator
	// Пауза между датами в пакетных операциях, чтобы не упереться
	// в лимиты табличного бэкенда.
	BatchDelay time.Duration
}

func NewShiftService(store domain.RowStore) *ShiftService {
	return &ShiftService{
		Store:      store,
		Locator:    NewLocator(store),
		BatchDelay: 300 * time.Millisecond,
	}
}

// ShiftExists сообщает, есть ли смена на дату.
func (s *ShiftService) ShiftExists(ctx context.Context, date string) (bool, error) {
	if err := domain.ValidateDate(date); err != nil {
		return false, err
	}
	return s.Locator.Exists(ctx, date)
}

// AddOrUpdateShift добавляет смену или, при явном подтверждении,
// перезаписывает существующую. Перезапись сбрасывает выручку и чай:
// новое временное окно обесценивает деньги, введённые за старое.
func (s *ShiftService) AddOrUpdateShift(ctx context.Context, date, start, end string, overwrite bool) error {
	rec, err := ApplyOverwrite(date, start, end)
	if err != nil {
		return err
	}

	existing, idx, err := s.Locator.Find(ctx, date)
	if err != nil {
		return err
	}
	if existing == nil {
		raw := domain.ShiftRecord{Date: date, Start: start, End: end}
		if err := s.Locator.Create(ctx, raw); err != nil {
			return err
		}
		return s.recalcRecord(ctx, date)
	}
	if !overwrite {
		return domain.ErrDuplicateKey
	}
	for col, value := range map[int]string{
		domain.ColStart:   rec.Start,
		domain.ColEnd:     rec.End,
		domain.ColRevenue: "",
		domain.ColTips:    "",
	} {
		if err := s.Store.UpdateCell(ctx, idx, col, value); err != nil {
			return err
		}
	}
	return s.recalcRecord(ctx, date)
}

// SetField записывает новое значение сырого поля и пересчитывает
// производные для этой даты.
func (s *ShiftService) SetField(ctx context.Context, date string, field domain.Field, value string) error {
	if err := domain.ValidateDate(date); err != nil {
		return err
	}
	rec, idx, err := s.Locator.Find(ctx, date)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	updated, err := ApplyUpdate(*rec, field, value)
	if err != nil {
		return err
	}
	if err := s.Store.UpdateCell(ctx, idx, field.Column(), updated.Raw(field)); err != nil {
		return err
	}
	return s.recalcRecord(ctx, date)
}

// recalcRecord перечитывает сырые поля записи и записывает производные:
// сначала часы из начала/конца, затем прибыль из часов, выручки и чая.
func (s *ShiftService) recalcRecord(ctx context.Context, date string) error {
	rec, idx, err := s.Locator.Find(ctx, date)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	hours, err := ComputeHours(rec.Start, rec.End)
	if err != nil {
		return err
	}
	hoursText := domain.FormatNumber(hours)
	profitText := domain.FormatNumber(ComputeProfit(hoursText, rec.Revenue, rec.Tips))
	if err := s.Store.UpdateCell(ctx, idx, domain.ColHours, hoursText); err != nil {
		return err
	}
	return s.Store.UpdateCell(ctx, idx, domain.ColProfit, profitText)
}

// GetProfit возвращает прибыль за дату. Отсутствие записи — не ноль,
// а отдельный исход.
func (s *ShiftService) GetProfit(ctx context.Context, date string) (string, bool, error) {
	if err := domain.ValidateDate(date); err != nil {
		return "", false, err
	}
	rec, _, err := s.Locator.Find(ctx, date)
	if err != nil {
		return "", false, err
	}
	if rec == nil {
		return "", false, nil
	}
	return rec.Profit, true, nil
}

// GetRecord возвращает запись целиком или nil, если её нет.
func (s *ShiftService) GetRecord(ctx context.Context, date string) (*domain.ShiftRecord, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	rec, _, err := s.Locator.Find(ctx, date)
	return rec, err
}

// DeleteShift удаляет смену по дате.
func (s *ShiftService) DeleteShift(ctx context.Context, date string) error {
	if err := domain.ValidateDate(date); err != nil {
		return err
	}
	return s.Locator.Delete(ctx, date)
}

// ListAllShifts возвращает все смены в порядке добавления в хранилище.
func (s *ShiftService) ListAllShifts(ctx context.Context) ([]domain.ShiftRecord, error) {
	rows, err := s.Store.GetAllRows(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]domain.ShiftRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.FromRow(row.Values))
	}
	return records, nil
}

// BatchResult — итог пакетного применения окна: какие даты созданы,
// какие перезаписаны, какие не удалось обработать.
type BatchResult struct {
	New         []string
	Overwritten []string
	Failed      []string
}

// BatchApplyWindow применяет одно временное окно к набору дат. Даты
// обрабатываются последовательно и независимо: сбой на одной не
// останавливает остальные. Атомарности по всему пакету нет, отмена не
// откатывает уже записанные даты.
func (s *ShiftService) BatchApplyWindow(ctx context.Context, dates []string, start, end string) (BatchResult, error) {
	if err := domain.ValidateTime(start); err != nil {
		return BatchResult{}, err
	}
	if err := domain.ValidateTime(end); err != nil {
		return BatchResult{}, err
	}

	var res BatchResult
	for i, date := range dates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if i > 0 && s.BatchDelay > 0 {
			time.Sleep(s.BatchDelay)
		}
		if err := domain.ValidateDate(date); err != nil {
			res.Failed = append(res.Failed, date)
			continue
		}
		exists, err := s.Locator.Exists(ctx, date)
		if err != nil {
			log.Printf("[batch] дата %s: %v", date, err)
			res.Failed = append(res.Failed, date)
			continue
		}
		if err := s.AddOrUpdateShift(ctx, date, start, end, true); err != nil {
			log.Printf("[batch] дата %s: %v", date, err)
			res.Failed = append(res.Failed, date)
			continue
		}
		if exists {
			res.Overwritten = append(res.Overwritten, date)
		} else {
			res.New = append(res.New, date)
		}
	}
	return res, nil
}

// MonthSummary — сводка за месяц: число смен, суммарные часы и прибыль.
type MonthSummary struct {
	Shifts int
	Hours  string
	Profit string
}

// MonthlySummary собирает сводку по всем сменам указанного месяца.
func (s *ShiftService) MonthlySummary(ctx context.Context, year int, month time.Month) (MonthSummary, error) {
	records, err := s.ListAllShifts(ctx)
	if err != nil {
		return MonthSummary{}, err
	}
	sum := MonthSummary{}
	hours := decimal.Zero
	profit := decimal.Zero
	for _, r := range records {
		d, err := time.Parse(domain.DateLayout, r.Date)
		if err != nil || d.Year() != year || d.Month() != month {
			continue
		}
		sum.Shifts++
		hours = hours.Add(domain.NumberOrZero(r.Hours))
		profit = profit.Add(domain.NumberOrZero(r.Profit))
	}
	sum.Hours = domain.FormatNumber(hours)
	sum.Profit = domain.FormatNumber(profit)
	return sum, nil
}
