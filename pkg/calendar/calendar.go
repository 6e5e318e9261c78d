package calendar

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/telebot.v3"
)

// Controller — инлайн-календарь с двумя режимами: выбор одной даты
// (OnDate) и множественный выбор для планирования недели (OnDates).
// В множественном режиме нажатие на день переключает отметку, кнопка
// "Готово" отдаёт весь набор.
type Controller struct {
	OnDate  func(date time.Time, c telebot.Context) error
	OnDates func(dates []time.Time, c telebot.Context) error

	mu       sync.Mutex
	selected map[int64]map[string]bool // chatID -> выбранные дни (ключ "d-m-y")
}

func NewController() *Controller {
	return &Controller{selected: make(map[int64]map[string]bool)}
}

// ShowSingle открывает календарь выбора одной даты.
func (cc *Controller) ShowSingle(c telebot.Context) error {
	cc.mu.Lock()
	delete(cc.selected, c.Chat().ID)
	cc.mu.Unlock()
	now := time.Now()
	return cc.send(c, now.Year(), int(now.Month()))
}

// ShowMulti открывает календарь множественного выбора.
func (cc *Controller) ShowMulti(c telebot.Context) error {
	cc.mu.Lock()
	cc.selected[c.Chat().ID] = make(map[string]bool)
	cc.mu.Unlock()
	now := time.Now()
	return cc.send(c, now.Year(), int(now.Month()))
}

// HandleCallback обрабатывает callback-коды календаря (cal_*).
// Возвращает false, если код не календарный.
func (cc *Controller) HandleCallback(c telebot.Context, key, payload string) (bool, error) {
	switch key {
	case "cal_day":
		return true, cc.pickDay(c, payload)
	case "cal_prev", "cal_next":
		parts := SplitDateData(payload)
		if len(parts) != 2 {
			return true, c.Send("Ошибка месяца")
		}
		month, _ := strconv.Atoi(parts[0])
		year, _ := strconv.Atoi(parts[1])
		if month < 1 {
			month = 12
			year--
		}
		if month > 12 {
			month = 1
			year++
		}
		return true, cc.send(c, year, month)
	case "cal_done":
		return true, cc.finishMulti(c)
	}
	return false, nil
}

func (cc *Controller) pickDay(c telebot.Context, payload string) error {
	parts := SplitDateData(payload)
	if len(parts) != 3 {
		return c.Send("Ошибка даты")
	}
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	chatID := c.Chat().ID
	cc.mu.Lock()
	set, multi := cc.selected[chatID]
	if multi {
		if set[payload] {
			delete(set, payload)
		} else {
			set[payload] = true
		}
	}
	cc.mu.Unlock()

	if multi {
		// Перерисовываем месяц с обновлёнными отметками.
		return cc.send(c, year, month)
	}
	if cc.OnDate != nil {
		return cc.OnDate(date, c)
	}
	return c.Send("Ошибка даты")
}

func (cc *Controller) finishMulti(c telebot.Context) error {
	chatID := c.Chat().ID
	cc.mu.Lock()
	set := cc.selected[chatID]
	delete(cc.selected, chatID)
	cc.mu.Unlock()
	if len(set) == 0 {
		return c.Send("Ни одна дата не выбрана.")
	}
	dates := make([]time.Time, 0, len(set))
	for key := range set {
		parts := SplitDateData(key)
		day, _ := strconv.Atoi(parts[0])
		month, _ := strconv.Atoi(parts[1])
		year, _ := strconv.Atoi(parts[2])
		dates = append(dates, time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	if cc.OnDates != nil {
		return cc.OnDates(dates, c)
	}
	return nil
}

// send строит и отправляет (или редактирует) календарь за месяц.
func (cc *Controller) send(c telebot.Context, year, month int) error {
	chatID := c.Chat().ID
	cc.mu.Lock()
	set, multi := cc.selected[chatID]
	marked := make(map[string]bool, len(set))
	for k := range set {
		marked[k] = true
	}
	cc.mu.Unlock()

	markup := &telebot.ReplyMarkup{}
	days := daysInMonth(year, month)
	var rows []telebot.Row
	week := telebot.Row{}
	for d := 1; d <= days; d++ {
		payload := strconv.Itoa(d) + "-" + strconv.Itoa(month) + "-" + strconv.Itoa(year)
		label := strconv.Itoa(d)
		if marked[payload] {
			label = "✅" + label
		}
		week = append(week, markup.Data(label, "cal_day", payload))
		if len(week) == 7 {
			rows = append(rows, week)
			week = telebot.Row{}
		}
	}
	if len(week) > 0 {
		rows = append(rows, week)
	}
	prev := markup.Data("<", "cal_prev", strconv.Itoa(month-1)+"-"+strconv.Itoa(year))
	next := markup.Data(">", "cal_next", strconv.Itoa(month+1)+"-"+strconv.Itoa(year))
	nav := telebot.Row{prev, next}
	if multi {
		nav = append(nav, markup.Data("Готово ✔", "cal_done", "done"))
	}
	rows = append(rows, nav)
	markup.Inline(rows...)

	title := "Выберите дату: " + monthName(time.Month(month)) + " " + strconv.Itoa(year)
	if multi {
		title = "Отметьте дни и нажмите «Готово»: " + monthName(time.Month(month)) + " " + strconv.Itoa(year)
	}
	if c.Callback() != nil {
		if err := c.Edit(title, markup); err == nil {
			return nil
		}
	}
	return c.Send(title, markup)
}

var ruMonths = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}

func monthName(m time.Month) string {
	if ru, ok := ruMonths[m]; ok {
		return ru
	}
	return m.String()
}

// SplitDateData разбивает payload даты на части.
func SplitDateData(data string) []string {
	return strings.Split(data, "-")
}

func daysInMonth(year, month int) int {
	t := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return t.Day()
}
