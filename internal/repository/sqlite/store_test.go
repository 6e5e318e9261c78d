package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbot/internal/domain"
	"shiftbot/internal/repository/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(db))
	return sqlite.NewStore(db)
}

func row(date, start, end string) []string {
	return []string{date, start, end, "", "", "", ""}
}

func TestFindByDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	found, err := s.FindByDate(ctx, "15.03.2024")
	require.NoError(t, err)
	assert.Nil(t, found, "отсутствие строки — не ошибка")

	require.NoError(t, s.AppendRow(ctx, row("15.03.2024", "09:00", "18:00")))
	found, err = s.FindByDate(ctx, "15.03.2024")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "09:00", found.Values[domain.ColStart-1])
	assert.Len(t, found.Values, domain.ColumnCount)
}

func TestAppendRow_DuplicateDate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.AppendRow(ctx, row("15.03.2024", "09:00", "18:00")))
	err := s.AppendRow(ctx, row("15.03.2024", "10:00", "19:00"))
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestUpdateCell(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.AppendRow(ctx, row("15.03.2024", "09:00", "18:00")))

	found, err := s.FindByDate(ctx, "15.03.2024")
	require.NoError(t, err)

	require.NoError(t, s.UpdateCell(ctx, found.Index, domain.ColRevenue, "15000.00"))
	require.NoError(t, s.UpdateCell(ctx, found.Index, domain.ColProfit, "2205.00"))

	found, err = s.FindByDate(ctx, "15.03.2024")
	require.NoError(t, err)
	assert.Equal(t, "15000.00", found.Values[domain.ColRevenue-1])
	assert.Equal(t, "2205.00", found.Values[domain.ColProfit-1])

	assert.ErrorIs(t, s.UpdateCell(ctx, 9999, domain.ColTips, "1"), domain.ErrNotFound)
	assert.Error(t, s.UpdateCell(ctx, found.Index, 42, "1"))
}

func TestDeleteRow(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.AppendRow(ctx, row("15.03.2024", "09:00", "18:00")))

	found, err := s.FindByDate(ctx, "15.03.2024")
	require.NoError(t, err)
	require.NoError(t, s.DeleteRow(ctx, found.Index))

	found, err = s.FindByDate(ctx, "15.03.2024")
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, s.DeleteRow(ctx, 9999), domain.ErrNotFound)
}

func TestGetAllRows_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	dates := []string{"17.03.2024", "15.03.2024", "16.03.2024"}
	for _, d := range dates {
		require.NoError(t, s.AppendRow(ctx, row(d, "09:00", "18:00")))
	}

	rows, err := s.GetAllRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, d := range dates {
		assert.Equal(t, d, rows[i].Values[domain.ColDate-1])
	}
}
