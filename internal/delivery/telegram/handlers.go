package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/telebot.v3"

	"shiftbot/internal/app/service"
	"shiftbot/internal/delivery/telegram/keyboards"
	"shiftbot/internal/delivery/telegram/middleware"
	"shiftbot/internal/delivery/telegram/router"
	"shiftbot/internal/domain"
	"shiftbot/pkg/calendar"
)

// Кнопки главного меню.
var (
	btnAddShift = telebot.Btn{Text: "📅 Добавить смену"}
	btnRevenue  = telebot.Btn{Text: "💰 Выручка"}
	btnTips     = telebot.Btn{Text: "☕ Чаевые"}
	btnEdit     = telebot.Btn{Text: "✏️ Редактировать"}
	btnProfit   = telebot.Btn{Text: "📈 Прибыль"}
	btnWeek     = telebot.Btn{Text: "🗓 План на неделю"}
	btnList     = telebot.Btn{Text: "📋 Все смены"}
	btnDelete   = telebot.Btn{Text: "🗑 Удалить смену"}
	btnStats    = telebot.Btn{Text: "📊 Статистика"}
)

type step int

const (
	stepNone step = iota
	stepDate       // ждём дату (текстом или из календаря)
	stepAddStart   // ждём время начала новой смены
	stepAddEnd     // ждём время конца новой смены
	stepEditField  // ждём выбор поля для редактирования
	stepValue      // ждём значение для revenue/tips/edit
	stepBatchStart // ждём время начала для плана на неделю
	stepBatchEnd   // ждём время конца для плана на неделю
)

// dialog — состояние незавершённого разговора в одном чате.
type dialog struct {
	step   step
	action string // add, revenue, tips, edit, profit, delete, week
	date   string
	start  string
	end    string
	field  domain.Field
	dates  []string
}

type Handler struct {
	Bot      *telebot.Bot
	Shifts   *service.ShiftService
	Async    *service.AsyncService
	Calendar *calendar.Controller
	Router   *router.CallbackRouter

	mu      sync.Mutex
	dialogs map[int64]*dialog
}

func (h *Handler) Register() {
	h.dialogs = make(map[int64]*dialog)

	h.Bot.Handle("/start", h.handleStart)
	h.Bot.Handle("/myid", func(c telebot.Context) error {
		return c.Send("Твой ID: " + strconv.FormatInt(c.Sender().ID, 10))
	})
	h.Bot.Handle("/cancel", h.handleCancel)

	h.Calendar.OnDate = func(date time.Time, c telebot.Context) error {
		return h.dateChosen(c, date.Format(domain.DateLayout))
	}
	h.Calendar.OnDates = func(dates []time.Time, c telebot.Context) error {
		return h.batchDatesChosen(c, dates)
	}

	h.Router.Delegate = h.Calendar.HandleCallback
	h.Router.Register("pick_today", func(c telebot.Context, _ string) error {
		return h.dateChosen(c, time.Now().Format(domain.DateLayout))
	})
	h.Router.Register("pick_calendar", func(c telebot.Context, _ string) error {
		return h.Calendar.ShowSingle(c)
	})
	h.Router.Register("overwrite_yes", h.cbOverwrite)
	h.Router.Register("overwrite_no", func(c telebot.Context, _ string) error {
		h.resetDialog(c.Chat().ID)
		return middleware.EditOrSend(c, "Хорошо, оставляю как было.", nil)
	})
	h.Router.Register("edit_field", h.cbEditField)
	h.Router.Register("delete_yes", h.cbDeleteConfirmed)
	h.Router.Register("delete_no", func(c telebot.Context, _ string) error {
		h.resetDialog(c.Chat().ID)
		return middleware.EditOrSend(c, "Удаление отменено.", nil)
	})
	h.Router.Attach(h.Bot)

	h.Bot.Handle(telebot.OnText, h.handleText)
}

func (h *Handler) handleStart(c telebot.Context) error {
	markup := &telebot.ReplyMarkup{ResizeKeyboard: true}
	markup.Reply(
		markup.Row(markup.Text(btnAddShift.Text), markup.Text(btnWeek.Text)),
		markup.Row(markup.Text(btnRevenue.Text), markup.Text(btnTips.Text)),
		markup.Row(markup.Text(btnEdit.Text), markup.Text(btnProfit.Text)),
		markup.Row(markup.Text(btnList.Text), markup.Text(btnDelete.Text)),
		markup.Row(markup.Text(btnStats.Text)),
	)
	text := "Привет! 🌸 Я помогу вести учёт смен.\n" +
		"Добавляй смены, вноси выручку и чаевые — часы и прибыль посчитаю сам."
	return c.Send(text, markup)
}

func (h *Handler) handleCancel(c telebot.Context) error {
	h.resetDialog(c.Chat().ID)
	return c.Send("Ок, отменено.")
}

// handleText — единая точка входа текстовых сообщений: сперва продолжение
// начатого диалога, затем кнопки меню.
func (h *Handler) handleText(c telebot.Context) error {
	text := strings.TrimSpace(c.Text())
	if strings.EqualFold(text, "отмена") {
		return h.handleCancel(c)
	}

	if d := h.dialog(c.Chat().ID); d != nil && d.step != stepNone {
		return h.continueDialog(c, d, text)
	}

	switch text {
	case btnAddShift.Text:
		h.setDialog(c.Chat().ID, &dialog{step: stepDate, action: "add"})
		return h.askDate(c, "За какой день добавить смену?")
	case btnRevenue.Text:
		h.setDialog(c.Chat().ID, &dialog{step: stepDate, action: "revenue"})
		return h.askDate(c, "За какой день внести выручку?")
	case btnTips.Text:
		h.setDialog(c.Chat().ID, &dialog{step: stepDate, action: "tips"})
		return h.askDate(c, "За какой день внести чаевые?")
	case btnEdit.Text:
		h.setDialog(c.Chat().ID, &dialog{step: stepDate, action: "edit"})
		return h.askDate(c, "Какой день редактируем?")
	case btnProfit.Text:
		h.setDialog(c.Chat().ID, &dialog{step: stepDate, action: "profit"})
		return h.askDate(c, "За какой день показать прибыль?")
	case btnDelete.Text:
		h.setDialog(c.Chat().ID, &dialog{step: stepDate, action: "delete"})
		return h.askDate(c, "Какую смену удалить?")
	case btnWeek.Text:
		h.setDialog(c.Chat().ID, &dialog{action: "week"})
		return h.Calendar.ShowMulti(c)
	case btnList.Text:
		return h.sendAllShifts(c)
	case btnStats.Text:
		title, markup := keyboards.BuildMonthKeyboard(time.Now().Year())
		return c.Send(title, markup)
	}
	return nil
}

// askDate предлагает ввести дату текстом или выбрать её кнопками.
func (h *Handler) askDate(c telebot.Context, title string) error {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.Data("Сегодня", "pick_today"),
		markup.Data("Календарь", "pick_calendar"),
	))
	return c.Send(title+"\nВведи дату (ДД.ММ.ГГГГ) или выбери:", markup)
}

// continueDialog обрабатывает очередной ответ пользователя в рамках
// начатого сценария.
func (h *Handler) continueDialog(c telebot.Context, d *dialog, text string) error {
	switch d.step {
	case stepDate:
		if err := domain.ValidateDate(text); err != nil {
			return c.Send("Не понимаю дату 😿 Нужен формат ДД.ММ.ГГГГ, например 15.03.2024.")
		}
		return h.dateChosen(c, text)

	case stepAddStart:
		if err := domain.ValidateTime(text); err != nil {
			return c.Send("Не понимаю время 😿 Нужен формат ЧЧ:ММ, например 09:00.")
		}
		d.start = text
		d.step = stepAddEnd
		return c.Send("Теперь время окончания (ЧЧ:ММ):")

	case stepAddEnd:
		if err := domain.ValidateTime(text); err != nil {
			return c.Send("Не понимаю время 😿 Нужен формат ЧЧ:ММ, например 18:00.")
		}
		return h.submitShift(c, d, text)

	case stepValue:
		return h.submitValue(c, d, text)

	case stepBatchStart:
		if err := domain.ValidateTime(text); err != nil {
			return c.Send("Не понимаю время 😿 Нужен формат ЧЧ:ММ.")
		}
		d.start = text
		d.step = stepBatchEnd
		return c.Send("Теперь время окончания (ЧЧ:ММ):")

	case stepBatchEnd:
		if err := domain.ValidateTime(text); err != nil {
			return c.Send("Не понимаю время 😿 Нужен формат ЧЧ:ММ.")
		}
		return h.submitBatch(c, d, text)
	}
	return nil
}

// dateChosen — дата получена (текстом, кнопкой «Сегодня» или из календаря).
func (h *Handler) dateChosen(c telebot.Context, date string) error {
	d := h.dialog(c.Chat().ID)
	if d == nil {
		return nil
	}
	d.date = date

	switch d.action {
	case "add":
		d.step = stepAddStart
		return middleware.EditOrSend(c, "Смена "+date+". Время начала (ЧЧ:ММ):", nil)
	case "revenue":
		d.field = domain.FieldRevenue
		d.step = stepValue
		return middleware.EditOrSend(c, "Выручка за "+date+" (только число):", nil)
	case "tips":
		d.field = domain.FieldTips
		d.step = stepValue
		return middleware.EditOrSend(c, "Чаевые за "+date+" (число):", nil)
	case "edit":
		d.step = stepEditField
		markup := &telebot.ReplyMarkup{}
		markup.Inline(
			markup.Row(
				markup.Data("Начало", "edit_field", "start"),
				markup.Data("Конец", "edit_field", "end"),
			),
			markup.Row(
				markup.Data("Выручка", "edit_field", "revenue"),
				markup.Data("Чай", "edit_field", "tips"),
			),
		)
		return middleware.EditOrSend(c, "Что редактируем за "+date+"?", markup)
	case "profit":
		h.resetDialog(c.Chat().ID)
		return h.sendProfit(c, date)
	case "delete":
		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Удалить", "delete_yes", date),
			markup.Data("Отмена", "delete_no"),
		))
		return middleware.EditOrSend(c, "Точно удалить смену "+date+"?", markup)
	}
	return nil
}

// submitShift добавляет новую смену; на занятую дату просит подтверждение
// перезаписи.
func (h *Handler) submitShift(c telebot.Context, d *dialog, end string) error {
	date, start := d.date, d.start
	err := h.Async.Run(context.Background(), func(ctx context.Context) error {
		return h.Shifts.AddOrUpdateShift(ctx, date, start, end, false)
	})
	if errors.Is(err, domain.ErrDuplicateKey) {
		// Запоминаем окно, подтверждение придёт callback-ом.
		d.end = end
		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Перезаписать", "overwrite_yes"),
			markup.Data("Отмена", "overwrite_no"),
		))
		return c.Send("Смена "+date+" уже есть. Перезаписать? Выручка и чай за этот день обнулятся.", markup)
	}
	if err != nil {
		return c.Send(h.userMessage(err))
	}
	h.resetDialog(c.Chat().ID)
	return c.Send("Смена " + date + " добавлена 🩷")
}

func (h *Handler) cbOverwrite(c telebot.Context, _ string) error {
	d := h.dialog(c.Chat().ID)
	if d == nil || d.end == "" {
		return middleware.EditOrSend(c, "Нечего перезаписывать — начни заново.", nil)
	}
	date, start, end := d.date, d.start, d.end
	h.resetDialog(c.Chat().ID)
	err := h.Async.Run(context.Background(), func(ctx context.Context) error {
		return h.Shifts.AddOrUpdateShift(ctx, date, start, end, true)
	})
	if err != nil {
		return middleware.EditOrSend(c, h.userMessage(err), nil)
	}
	return middleware.EditOrSend(c, "Смена "+date+" перезаписана ✨", nil)
}

func (h *Handler) cbEditField(c telebot.Context, payload string) error {
	d := h.dialog(c.Chat().ID)
	if d == nil || d.step != stepEditField {
		return nil
	}
	field := domain.Field(payload)
	if field.Column() == 0 {
		return middleware.EditOrSend(c, "Такого поля нет 😿", nil)
	}
	d.field = field
	d.step = stepValue
	prompts := map[domain.Field]string{
		domain.FieldStart:   "Новое время начала (ЧЧ:ММ):",
		domain.FieldEnd:     "Новое время окончания (ЧЧ:ММ):",
		domain.FieldRevenue: "Новая выручка (число):",
		domain.FieldTips:    "Новые чаевые (число):",
	}
	return middleware.EditOrSend(c, prompts[field], nil)
}

// submitValue записывает значение поля и сообщает результат.
func (h *Handler) submitValue(c telebot.Context, d *dialog, value string) error {
	date, field := d.date, d.field
	err := h.Async.Run(context.Background(), func(ctx context.Context) error {
		return h.Shifts.SetField(ctx, date, field, value)
	})
	if err != nil {
		if domain.IsFormat(err) {
			// Формат не удался — остаёмся на этом шаге и спрашиваем снова.
			return c.Send(h.userMessage(err))
		}
		h.resetDialog(c.Chat().ID)
		return c.Send(h.userMessage(err))
	}
	h.resetDialog(c.Chat().ID)
	switch field {
	case domain.FieldRevenue:
		return c.Send("Выручка обновлена 💰✨")
	case domain.FieldTips:
		return c.Send("Чаевые добавлены ☕️💖")
	}
	return c.Send("Изменения сохранены 🩷")
}

func (h *Handler) cbDeleteConfirmed(c telebot.Context, date string) error {
	h.resetDialog(c.Chat().ID)
	err := h.Async.Run(context.Background(), func(ctx context.Context) error {
		return h.Shifts.DeleteShift(ctx, date)
	})
	if err != nil {
		return middleware.EditOrSend(c, h.userMessage(err), nil)
	}
	return middleware.EditOrSend(c, "Смена "+date+" удалена.", nil)
}

// batchDatesChosen — календарь вернул набор дат для плана на неделю.
func (h *Handler) batchDatesChosen(c telebot.Context, dates []time.Time) error {
	d := h.dialog(c.Chat().ID)
	if d == nil || d.action != "week" {
		return nil
	}
	d.dates = d.dates[:0]
	for _, t := range dates {
		d.dates = append(d.dates, t.Format(domain.DateLayout))
	}
	d.step = stepBatchStart
	return middleware.EditOrSend(c,
		fmt.Sprintf("Выбрано дней: %d. Время начала смен (ЧЧ:ММ):", len(d.dates)), nil)
}

func (h *Handler) submitBatch(c telebot.Context, d *dialog, end string) error {
	dates, start := d.dates, d.start
	h.resetDialog(c.Chat().ID)
	_ = c.Send("Записываю, это может занять немного времени…")

	var res service.BatchResult
	err := h.Async.Run(context.Background(), func(ctx context.Context) error {
		var err error
		res, err = h.Shifts.BatchApplyWindow(ctx, dates, start, end)
		return err
	})
	if err != nil {
		return c.Send(h.userMessage(err))
	}

	msg := fmt.Sprintf("Готово! Новых смен: %d, перезаписано: %d.", len(res.New), len(res.Overwritten))
	if len(res.Overwritten) > 0 {
		msg += "\nУ перезаписанных дней выручка и чай сброшены."
	}
	if len(res.Failed) > 0 {
		msg += "\nНе получилось: " + strings.Join(res.Failed, ", ")
	}
	return c.Send(msg)
}

// sendProfit показывает прибыль за день в стиле оригинала: отсутствие
// записи — отдельный ответ, не ноль.
func (h *Handler) sendProfit(c telebot.Context, date string) error {
	day, err := time.Parse(domain.DateLayout, date)
	if err == nil && day.After(time.Now()) {
		return middleware.EditOrSend(c, "Этот день ещё не наступил 🐾", nil)
	}

	var (
		profit string
		found  bool
	)
	runErr := h.Async.Run(context.Background(), func(ctx context.Context) error {
		var err error
		profit, found, err = h.Shifts.GetProfit(ctx, date)
		return err
	})
	if runErr != nil {
		return middleware.EditOrSend(c, h.userMessage(runErr), nil)
	}
	if !found || profit == "" {
		return middleware.EditOrSend(c, "Нет данных о прибыли на эту дату 😿", nil)
	}

	val, err := strconv.ParseFloat(strings.ReplaceAll(profit, ",", "."), 64)
	if err != nil {
		return middleware.EditOrSend(c, "Прибыль за "+date+": "+profit+"₽", nil)
	}
	var mood string
	switch {
	case val < 4000:
		mood = "Не расстраивайся 🐾 — ты отлично поработала!"
	case val <= 6000:
		mood = "Неплохая смена 😺 — беги радовать себя чем-то вкусным!"
	default:
		mood = "Ты просто суперстар 🌟 — ещё немного, и миллион твой!"
	}
	return middleware.EditOrSend(c, fmt.Sprintf("Твоя прибыль за %s: %.2f₽.\n%s", date, val, mood), nil)
}

func (h *Handler) sendAllShifts(c telebot.Context) error {
	var records []domain.ShiftRecord
	err := h.Async.Run(context.Background(), func(ctx context.Context) error {
		var err error
		records, err = h.Shifts.ListAllShifts(ctx)
		return err
	})
	if err != nil {
		return c.Send(h.userMessage(err))
	}
	if len(records) == 0 {
		return c.Send("Смен пока нет. Добавь первую! 📅")
	}
	var b strings.Builder
	b.WriteString("Все смены:\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s  %s–%s", r.Date, r.Start, r.End)
		if r.Hours != "" {
			fmt.Fprintf(&b, "  %s ч", r.Hours)
		}
		if r.Profit != "" {
			fmt.Fprintf(&b, "  прибыль %s", r.Profit)
		}
		b.WriteString("\n")
	}
	return c.Send(b.String())
}

// userMessage переводит ошибку ядра в ответ пользователю. Детали сбоев
// хранилища наружу не утекают — только в лог.
func (h *Handler) userMessage(err error) string {
	var fe *domain.FormatError
	switch {
	case errors.As(err, &fe):
		return fmt.Sprintf("Не понимаю (%s): %q. Ожидается %s. Попробуй ещё раз!", fe.Kind, fe.Input, fe.Want)
	case errors.Is(err, domain.ErrNotFound):
		return "Смена на эту дату не найдена 😿 Сначала добавь её."
	case errors.Is(err, domain.ErrDuplicateKey):
		return "Запись на эту дату уже есть."
	default:
		log.Printf("[telegram] ошибка хранилища: %v", err)
		return "Что-то пошло не так с хранилищем 😿 Попробуй позже."
	}
}

func (h *Handler) dialog(chatID int64) *dialog {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dialogs[chatID]
}

func (h *Handler) setDialog(chatID int64, d *dialog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dialogs[chatID] = d
}

func (h *Handler) resetDialog(chatID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.dialogs, chatID)
}
