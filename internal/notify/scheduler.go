package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/telebot.v3"

	"shiftbot/internal/app/service"
	"shiftbot/internal/domain"
)

// Sender — минимум телеграм-бота, нужный напоминаниям.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Scheduler шлёт напоминания по расписанию:
// 10:00 — о сегодняшней смене и незаполненных днях,
// 12:00 — отдельно о незаполненных данных,
// 22:00 — вечерняя просьба внести выручку и чай,
// воскресенье 20:00 — итоги недели.
// При нулевом UserID напоминания выключены.
type Scheduler struct {
	Bot    Sender
	Shifts *service.ShiftService
	UserID int64

	loc  *time.Location
	cron *cron.Cron
}

func NewScheduler(bot Sender, shifts *service.ShiftService, userID int64, loc *time.Location) *Scheduler {
	return &Scheduler{Bot: bot, Shifts: shifts, UserID: userID, loc: loc}
}

func (s *Scheduler) Start() {
	if s.UserID == 0 {
		log.Println("[notify] USER_ID не задан — напоминания выключены")
		return
	}
	s.cron = cron.New(cron.WithLocation(s.loc))
	s.cron.AddFunc("0 10 * * *", s.morningReminder)
	s.cron.AddFunc("0 12 * * *", s.dataCompletionReminder)
	s.cron.AddFunc("0 22 * * *", s.eveningPrompt)
	s.cron.AddFunc("0 20 * * 0", s.weeklySummary)
	s.cron.Start()
	log.Println("[notify] планировщик запущен: 10:00, 12:00, 22:00 и вс 20:00")
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) send(text string) {
	if _, err := s.Bot.Send(&telebot.User{ID: s.UserID}, text); err != nil {
		log.Printf("[notify] отправка не удалась: %v", err)
	}
}

type incompleteShift struct {
	date    string
	missing []string
}

// incompleteShifts ищет смены за последние 7 дней (кроме сегодняшнего)
// без выручки или чая.
func (s *Scheduler) incompleteShifts(ctx context.Context) []incompleteShift {
	today := time.Now().In(s.loc)
	var result []incompleteShift
	for daysAgo := 1; daysAgo <= 7; daysAgo++ {
		date := today.AddDate(0, 0, -daysAgo).Format(domain.DateLayout)
		rec, err := s.Shifts.GetRecord(ctx, date)
		if err != nil {
			log.Printf("[notify] проверка %s: %v", date, err)
			continue
		}
		if rec == nil {
			continue
		}
		var missing []string
		if domain.NumberOrZero(rec.Revenue).IsZero() {
			missing = append(missing, "выручка")
		}
		if domain.NumberOrZero(rec.Tips).IsZero() {
			missing = append(missing, "чаевые")
		}
		if len(missing) > 0 {
			result = append(result, incompleteShift{date: date, missing: missing})
		}
	}
	return result
}

func formatIncomplete(shifts []incompleteShift, limit int) string {
	if limit > len(shifts) {
		limit = len(shifts)
	}
	lines := make([]string, 0, limit)
	for _, sh := range shifts[:limit] {
		lines = append(lines, "• "+sh.date+" (нет: "+strings.Join(sh.missing, " и ")+")")
	}
	return strings.Join(lines, "\n")
}

func (s *Scheduler) morningReminder() {
	ctx := context.Background()
	today := time.Now().In(s.loc).Format(domain.DateLayout)

	var parts []string
	exists, err := s.Shifts.ShiftExists(ctx, today)
	if err != nil {
		log.Printf("[notify] проверка смены на %s: %v", today, err)
	}
	if exists {
		parts = append(parts,
			"🌞 Доброе утро!\nСегодня у тебя смена ("+today+") 💪\nХорошего дня и лёгких гостей!")
	}
	if incomplete := s.incompleteShifts(ctx); len(incomplete) > 0 {
		parts = append(parts,
			"📝 Есть смены без выручки или чаевых:\n"+formatIncomplete(incomplete, 3)+
				"\n\nЗаполни их через кнопки «Выручка» и «Чаевые».")
	}
	if len(parts) > 0 {
		s.send(strings.Join(parts, "\n\n"))
	}
}

func (s *Scheduler) dataCompletionReminder() {
	incomplete := s.incompleteShifts(context.Background())
	if len(incomplete) == 0 {
		return
	}
	s.send(fmt.Sprintf(
		"📋 Напоминание: %d смен без выручки или чаевых.\n%s\n\nКнопки «Выручка» и «Чаевые» ждут тебя!",
		len(incomplete), formatIncomplete(incomplete, 5)))
}

func (s *Scheduler) eveningPrompt() {
	ctx := context.Background()
	today := time.Now().In(s.loc).Format(domain.DateLayout)
	exists, err := s.Shifts.ShiftExists(ctx, today)
	if err != nil {
		log.Printf("[notify] проверка смены на %s: %v", today, err)
		return
	}
	if !exists {
		return
	}
	s.send("🌙 Привет! Смена " + today + " подходит к концу 💫\n" +
		"Не забудь внести выручку и чаевые за день ☕️💰")
}

func (s *Scheduler) weeklySummary() {
	now := time.Now().In(s.loc)
	weekAgo := now.AddDate(0, 0, -7)
	msg := fmt.Sprintf("📊 Итоги недели %s – %s\n",
		weekAgo.Format(domain.DateLayout), now.Format(domain.DateLayout))

	incomplete := s.incompleteShifts(context.Background())
	if len(incomplete) > 0 {
		msg += "\n⚠️ Остались незаполненные смены:\n" + formatIncomplete(incomplete, 7) +
			"\nВнеси данные до начала новой недели!"
	} else {
		msg += "\n🎉 Все смены за неделю заполнены, отличная работа!"
	}
	msg += "\n\nКнопка «Статистика» покажет сводку за месяц 📈"
	s.send(msg)
}
