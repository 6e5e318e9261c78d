package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config собирается из окружения (.env подхватывается, если есть).
type Config struct {
	TelegramToken string
	// UserID — кому слать напоминания; 0 выключает их.
	UserID   int64
	Timezone string

	// Storage: sheets, sqlite или postgres.
	Storage     string
	SQLitePath  string
	DatabaseURL string

	// Для табличного бэкенда.
	SpreadsheetID   string
	CredentialsFile string
	SheetName       string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, ErrNoToken{}
	}

	userID, _ := strconv.ParseInt(os.Getenv("USER_ID"), 10, 64)

	cfg := &Config{
		TelegramToken:   token,
		UserID:          userID,
		Timezone:        envOr("TIMEZONE", "Europe/Moscow"),
		Storage:         envOr("STORAGE", "sqlite"),
		SQLitePath:      envOr("SQLITE_PATH", "shiftbot.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		CredentialsFile: envOr("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		SheetName:       envOr("SHEET_NAME", "Лист1"),
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type ErrNoToken struct{}

func (e ErrNoToken) Error() string {
	return "TELEGRAM_TOKEN не задан в окружении"
}
