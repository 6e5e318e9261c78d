package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"gopkg.in/telebot.v3"

	_ "github.com/mattn/go-sqlite3"

	"shiftbot/config"
	"shiftbot/internal/app/service"
	"shiftbot/internal/delivery/telegram"
	"shiftbot/internal/delivery/telegram/flows"
	"shiftbot/internal/delivery/telegram/router"
	"shiftbot/internal/domain"
	"shiftbot/internal/notify"
	"shiftbot/internal/repository/postgres"
	"shiftbot/internal/repository/sheets"
	"shiftbot/internal/repository/sqlite"
	"shiftbot/pkg/calendar"
	"shiftbot/pkg/workerpool"
)

func main() {
	log.Println("Запуск Shift Tracker Bot...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфига: %v", err)
	}

	store, cleanup, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к хранилищу: %v", err)
	}
	defer cleanup()

	pool := workerpool.NewWorkerPool(4, 32)
	defer pool.Close()

	shiftService := service.NewShiftService(store)
	asyncService := service.NewAsyncService(pool)

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		log.Fatalf("Ошибка запуска бота: %v", err)
	}

	r := router.New()
	flows.RegisterStats(r, shiftService, asyncService)

	handler := &telegram.Handler{
		Bot:      bot,
		Shifts:   shiftService,
		Async:    asyncService,
		Calendar: calendar.NewController(),
		Router:   r,
	}
	handler.Register()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Часовой пояс %q не найден, использую UTC", cfg.Timezone)
		loc = time.UTC
	}
	scheduler := notify.NewScheduler(bot, shiftService, cfg.UserID, loc)
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("Бот запущен! Хранилище: %s", cfg.Storage)
	bot.Start()
}

// openStore выбирает бэкенд по конфигу: таблица Google, SQLite или Postgres.
func openStore(cfg *config.Config) (domain.RowStore, func(), error) {
	switch cfg.Storage {
	case "sheets":
		s, err := sheets.New(context.Background(), cfg.CredentialsFile, cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "postgres":
		s, err := postgres.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		db, err := sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.Migrate(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewStore(db), func() { db.Close() }, nil
	}
}
