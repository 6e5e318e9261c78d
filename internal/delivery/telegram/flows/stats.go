package flows

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/telebot.v3"

	"shiftbot/internal/app/service"
	"shiftbot/internal/delivery/telegram/keyboards"
	"shiftbot/internal/delivery/telegram/middleware"
	"shiftbot/internal/delivery/telegram/router"
)

// RegisterStats подключает сценарий месячной сводки: выбор месяца
// инлайн-клавиатурой и подсчёт смен, часов и прибыли за него.
func RegisterStats(r *router.CallbackRouter, shifts *service.ShiftService, async *service.AsyncService) {
	showYear := func(c telebot.Context, year int) error {
		title, markup := keyboards.BuildMonthKeyboard(year)
		return middleware.EditOrSend(c, title, markup)
	}

	r.Register("month_prev", func(c telebot.Context, payload string) error {
		y, _ := strconv.Atoi(payload)
		return showYear(c, y-1)
	})

	r.Register("month_next", func(c telebot.Context, payload string) error {
		y, _ := strconv.Atoi(payload)
		return showYear(c, y+1)
	})

	r.Register("pick_month", func(c telebot.Context, payload string) error {
		parts := strings.Split(payload, "-")
		if len(parts) != 2 {
			return nil
		}
		y, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])

		var sum service.MonthSummary
		err := async.Run(context.Background(), func(ctx context.Context) error {
			var err error
			sum, err = shifts.MonthlySummary(ctx, y, time.Month(m))
			return err
		})
		if err != nil {
			return middleware.EditOrSend(c, "Не получилось собрать сводку 😿 Попробуй позже.", nil)
		}
		if sum.Shifts == 0 {
			return middleware.EditOrSend(c, fmt.Sprintf("За %02d.%04d смен не было.", m, y), nil)
		}
		msg := fmt.Sprintf("Сводка за %02d.%04d:\nСмен: %d\nЧасов: %s\nПрибыль: %s",
			m, y, sum.Shifts, sum.Hours, sum.Profit)
		return middleware.EditOrSend(c, msg, nil)
	})
}
