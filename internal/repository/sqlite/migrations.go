package sqlite

import (
	"database/sql"
)

const createShiftsTable = `
CREATE TABLE IF NOT EXISTS shifts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL UNIQUE,
    start_time TEXT NOT NULL DEFAULT '',
    end_time TEXT NOT NULL DEFAULT '',
    hours TEXT NOT NULL DEFAULT '',
    revenue TEXT NOT NULL DEFAULT '',
    tips TEXT NOT NULL DEFAULT '',
    profit TEXT NOT NULL DEFAULT ''
);
`

func Migrate(db *sql.DB) error {
	_, err := db.Exec(createShiftsTable)
	return err
}
