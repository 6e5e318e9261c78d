package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbot/internal/domain"
)

func TestValidateDate(t *testing.T) {
	for _, ok := range []string{"15.03.2024", "01.01.2099", "29.02.2024"} {
		assert.NoError(t, domain.ValidateDate(ok), ok)
	}
	for _, bad := range []string{"15.3.2024", "2024-03-15", "31.02.2024", "вчера", "", "15.03.24"} {
		err := domain.ValidateDate(bad)
		require.Error(t, err, bad)
		assert.True(t, domain.IsFormat(err), bad)
	}
}

func TestValidateTime(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.NoError(t, domain.ValidateTime(ok), ok)
	}
	for _, bad := range []string{"24:00", "9:30", "09:60", "09.30", ""} {
		err := domain.ValidateTime(bad)
		require.Error(t, err, bad)
		assert.True(t, domain.IsFormat(err), bad)
	}
}

func TestParseNumber_CommaTolerance(t *testing.T) {
	d, err := domain.ParseNumber("1234,56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", domain.FormatNumber(d))

	d, err = domain.ParseNumber(" 15000 ")
	require.NoError(t, err)
	assert.Equal(t, "15000.00", domain.FormatNumber(d))

	_, err = domain.ParseNumber("12,34,56")
	assert.True(t, domain.IsFormat(err))
	_, err = domain.ParseNumber("")
	assert.True(t, domain.IsFormat(err))
}

func TestNumberOrZero(t *testing.T) {
	assert.True(t, domain.NumberOrZero("").IsZero())
	assert.True(t, domain.NumberOrZero("мусор").IsZero())
	assert.Equal(t, "100.50", domain.FormatNumber(domain.NumberOrZero("100,5")))
}

func TestRowRoundTrip(t *testing.T) {
	rec := domain.ShiftRecord{
		Date: "15.03.2024", Start: "09:00", End: "18:00",
		Hours: "9.00", Revenue: "15000.00", Tips: "1200.00", Profit: "3405.00",
	}
	assert.Equal(t, rec, domain.FromRow(rec.ToRow()))

	// Короткая строка добивается пустыми ячейками.
	short := domain.FromRow([]string{"15.03.2024", "09:00", "18:00"})
	assert.Equal(t, "15.03.2024", short.Date)
	assert.Empty(t, short.Profit)
}

func TestFieldColumn(t *testing.T) {
	assert.Equal(t, domain.ColStart, domain.FieldStart.Column())
	assert.Equal(t, domain.ColTips, domain.FieldTips.Column())
	assert.Zero(t, domain.Field("hours").Column(), "производные поля не адресуются как сырые")
}
