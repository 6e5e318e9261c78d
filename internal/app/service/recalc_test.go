package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbot/internal/app/service"
	"shiftbot/internal/domain"
)

func TestComputeHours_SameDay(t *testing.T) {
	cases := []struct {
		start, end string
		want       string
	}{
		{"09:00", "18:00", "9.00"},
		{"09:00", "09:30", "0.50"},
		{"00:00", "23:59", "23.98"},
		{"08:15", "17:45", "9.50"},
	}
	for _, tc := range cases {
		h, err := service.ComputeHours(tc.start, tc.end)
		require.NoError(t, err, "%s-%s", tc.start, tc.end)
		assert.Equal(t, tc.want, domain.FormatNumber(h), "%s-%s", tc.start, tc.end)
	}
}

func TestComputeHours_Overnight(t *testing.T) {
	// Конец не позже начала — смена через полночь, длительность всегда > 0.
	cases := []struct {
		start, end string
		want       string
	}{
		{"22:00", "06:00", "8.00"},
		{"23:30", "00:15", "0.75"},
		{"18:00", "09:00", "15.00"},
		{"10:00", "10:00", "24.00"},
	}
	for _, tc := range cases {
		h, err := service.ComputeHours(tc.start, tc.end)
		require.NoError(t, err, "%s-%s", tc.start, tc.end)
		assert.False(t, h.IsNegative())
		assert.Equal(t, tc.want, domain.FormatNumber(h), "%s-%s", tc.start, tc.end)
	}
}

func TestComputeHours_BadInput(t *testing.T) {
	for _, bad := range [][2]string{
		{"9:00", "18:00"},  // не каноничный формат
		{"09:00", "25:00"}, // часа 25 не бывает
		{"09:60", "18:00"},
		{"утро", "вечер"},
		{"", "18:00"},
	} {
		_, err := service.ComputeHours(bad[0], bad[1])
		require.Error(t, err, "%q-%q", bad[0], bad[1])
		assert.True(t, domain.IsFormat(err), "%q-%q: ожидалась ошибка формата", bad[0], bad[1])
	}
}

func TestComputeProfit(t *testing.T) {
	cases := []struct {
		hours, revenue, tips string
		want                 string
	}{
		{"9.00", "15000", "1200", "3405.00"}, // 1980 + 1200 + 225
		{"9.00", "", "", "1980.00"},          // только часы
		{"8.00", "", "", "1760.00"},
		{"0.00", "", "", "0.00"},
		{"8.00", "1000,50", "100,25", "1875.26"}, // запятая как разделитель
		{"", "2000", "", "30.00"},                // пустые часы читаются нулём
		{"9.00", "мусор", "1200", "3180.00"},     // нечитаемая выручка — ноль
	}
	for _, tc := range cases {
		got := service.ComputeProfit(tc.hours, tc.revenue, tc.tips)
		assert.Equal(t, tc.want, domain.FormatNumber(got),
			"hours=%q revenue=%q tips=%q", tc.hours, tc.revenue, tc.tips)
	}
}

func TestApplyUpdate_RecomputesDerived(t *testing.T) {
	rec := domain.ShiftRecord{Date: "15.03.2024", Start: "09:00", End: "18:00", Hours: "9.00", Profit: "1980.00"}

	rec, err := service.ApplyUpdate(rec, domain.FieldRevenue, "15000")
	require.NoError(t, err)
	assert.Equal(t, "15000.00", rec.Revenue)
	assert.Equal(t, "3180.00", rec.Profit) // 1980 + 15000*0.015

	rec, err = service.ApplyUpdate(rec, domain.FieldTips, "1200")
	require.NoError(t, err)
	assert.Equal(t, "3405.00", rec.Profit)

	// Сдвиг конца смены: сначала часы, потом прибыль из новых часов.
	rec, err = service.ApplyUpdate(rec, domain.FieldEnd, "19:00")
	require.NoError(t, err)
	assert.Equal(t, "10.00", rec.Hours)
	assert.Equal(t, "3625.00", rec.Profit) // 2200 + 1200 + 225
}

func TestApplyUpdate_Idempotent(t *testing.T) {
	rec := domain.ShiftRecord{Date: "15.03.2024", Start: "09:00", End: "18:00", Hours: "9.00", Profit: "1980.00"}

	once, err := service.ApplyUpdate(rec, domain.FieldTips, "500")
	require.NoError(t, err)
	twice, err := service.ApplyUpdate(once, domain.FieldTips, "500")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestApplyUpdate_BadValue(t *testing.T) {
	rec := domain.ShiftRecord{Date: "15.03.2024", Start: "09:00", End: "18:00"}

	_, err := service.ApplyUpdate(rec, domain.FieldStart, "25:99")
	assert.True(t, domain.IsFormat(err))

	_, err = service.ApplyUpdate(rec, domain.FieldRevenue, "не число")
	assert.True(t, domain.IsFormat(err))

	_, err = service.ApplyUpdate(rec, domain.Field("hours"), "5")
	assert.True(t, domain.IsFormat(err), "производное поле нельзя править напрямую")
}

func TestApplyOverwrite_ResetsFinances(t *testing.T) {
	rec, err := service.ApplyOverwrite("15.03.2024", "22:00", "06:00")
	require.NoError(t, err)
	assert.Equal(t, "8.00", rec.Hours)
	assert.Empty(t, rec.Revenue)
	assert.Empty(t, rec.Tips)
	assert.Equal(t, "1760.00", rec.Profit)
}

func TestApplyOverwrite_BadDate(t *testing.T) {
	_, err := service.ApplyOverwrite("2024-03-15", "09:00", "18:00")
	assert.True(t, domain.IsFormat(err))
}
