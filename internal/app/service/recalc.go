package service

import (
	"time"

	"github.com/shopspring/decimal"

	"shiftbot/internal/domain"
)

var (
	hourlyRate     = decimal.NewFromInt(domain.HourlyRate)
	revenueFeeRate = decimal.RequireFromString(domain.RevenueFeeRate)
	minutesPerHour = decimal.NewFromInt(60)
)

// ComputeHours считает длительность смены по началу и концу (ЧЧ:ММ).
// Конец "не позже" начала означает смену через полночь: к концу
// прибавляются сутки, поэтому результат всегда неотрицателен.
// Нечитаемое время — ошибка формата, а не ноль.
func ComputeHours(start, end string) (decimal.Decimal, error) {
	if err := domain.ValidateTime(start); err != nil {
		return decimal.Zero, err
	}
	if err := domain.ValidateTime(end); err != nil {
		return decimal.Zero, err
	}
	s, _ := time.Parse(domain.TimeLayout, start)
	e, _ := time.Parse(domain.TimeLayout, end)
	minutes := e.Sub(s).Minutes()
	if minutes <= 0 {
		minutes += 24 * 60
	}
	return decimal.NewFromFloat(minutes).Div(minutesPerHour).Round(2), nil
}

// ComputeProfit считает прибыль: часы*220 + чай + выручка*0.015, до двух
// знаков. Функция тотальна: пустые или нечитаемые выручка/чай — это ещё
// не введённые значения, они читаются как ноль.
func ComputeProfit(hours, revenue, tips string) decimal.Decimal {
	h := domain.NumberOrZero(hours)
	rev := domain.NumberOrZero(revenue)
	tip := domain.NumberOrZero(tips)
	return h.Mul(hourlyRate).Add(tip).Add(rev.Mul(revenueFeeRate)).Round(2)
}

// ApplyUpdate записывает новое значение сырого поля и пересчитывает
// производные. Порядок важен: сначала часы из обновлённых начала/конца,
// затем прибыль из обновлённых часов.
func ApplyUpdate(rec domain.ShiftRecord, field domain.Field, value string) (domain.ShiftRecord, error) {
	switch field {
	case domain.FieldStart, domain.FieldEnd:
		if err := domain.ValidateTime(value); err != nil {
			return rec, err
		}
	case domain.FieldRevenue, domain.FieldTips:
		n, err := domain.ParseNumber(value)
		if err != nil {
			return rec, err
		}
		value = domain.FormatNumber(n)
	default:
		return rec, &domain.FormatError{Kind: "поле", Input: string(field), Want: "start, end, revenue или tips"}
	}

	rec.SetRaw(field, value)

	if field == domain.FieldStart || field == domain.FieldEnd {
		hours, err := ComputeHours(rec.Start, rec.End)
		if err != nil {
			return rec, err
		}
		rec.Hours = domain.FormatNumber(hours)
	}
	rec.Profit = domain.FormatNumber(ComputeProfit(rec.Hours, rec.Revenue, rec.Tips))
	return rec, nil
}

// ApplyOverwrite строит запись "с чистого листа": новое временное окно
// обесценивает ранее введённые деньги за этот день, поэтому выручка и чай
// сбрасываются, а прибыль считается только из часов.
func ApplyOverwrite(date, start, end string) (domain.ShiftRecord, error) {
	if err := domain.ValidateDate(date); err != nil {
		return domain.ShiftRecord{}, err
	}
	hours, err := ComputeHours(start, end)
	if err != nil {
		return domain.ShiftRecord{}, err
	}
	return domain.ShiftRecord{
		Date:   date,
		Start:  start,
		End:    end,
		Hours:  domain.FormatNumber(hours),
		Profit: domain.FormatNumber(ComputeProfit(domain.FormatNumber(hours), "", "")),
	}, nil
}
