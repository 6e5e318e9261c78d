package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftbot/internal/app/service"
	"shiftbot/internal/domain"
	"shiftbot/internal/repository/memory"
)

func newTestService() *service.ShiftService {
	s := service.NewShiftService(memory.NewStore())
	s.BatchDelay = 0
	return s
}

func TestAddShift_DerivesHoursAndProfit(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	require.NoError(t, s.AddOrUpdateShift(ctx, "15.03.2024", "09:00", "18:00", false))

	rec, err := s.GetRecord(ctx, "15.03.2024")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "9.00", rec.Hours)
	assert.Equal(t, "1980.00", rec.Profit)
	assert.Empty(t, rec.Revenue)
	assert.Empty(t, rec.Tips)
}

func TestSetField_RecomputesProfit(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	require.NoError(t, s.AddOrUpdateShift(ctx, "15.03.2024", "09:00", "18:00", false))

	require.NoError(t, s.SetField(ctx, "15.03.2024", domain.FieldRevenue, "15000"))
	require.NoError(t, s.SetField(ctx, "15.03.2024", domain.FieldTips, "1200"))

	profit, found, err := s.GetProfit(ctx, "15.03.2024")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "3405.00", profit) // 9*220 + 1200 + 15000*0.015

	// Смена времени пересчитывает и часы, и прибыль.
	require.NoError(t, s.SetField(ctx, "15.03.2024", domain.FieldEnd, "19:00"))
	rec, err := s.GetRecord(ctx, "15.03.2024")
	require.NoError(t, err)
	assert.Equal(t, "10.00", rec.Hours)
	assert.Equal(t, "3625.00", rec.Profit)
}

func TestSetField_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	require.NoError(t, s.AddOrUpdateShift(ctx, "15.03.2024", "09:00", "18:00", false))

	err := s.SetField(ctx, "16.03.2024", domain.FieldTips, "100")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = s.SetField(ctx, "15.03.2024", domain.FieldTips, "сто")
	assert.True(t, domain.IsFormat(err))

	// Неудачный ввод ничего не записал.
	rec, err := s.GetRecord(ctx, "15.03.2024")
	require.NoError(t, err)
	assert.Empty(t, rec.Tips)
	assert.Equal(t, "1980.00", rec.Profit)
}

func TestOverwrite_RequiresConfirmationAndResetsFinances(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	require.NoError(t, s.AddOrUpdateShift(ctx, "15.03.2024", "09:00", "18:00", false))
	require.NoError(t, s.SetField(ctx, "15.03.2024", domain.FieldRevenue, "15000"))
	require.NoError(t, s.SetField(ctx, "15.03.2024", domain.FieldTips, "1200"))

	err := s.AddOrUpdateShift(ctx, "15.03.2024", "22:00", "06:00", false)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	require.NoError(t, s.AddOrUpdateShift(ctx, "15.03.2024", "22:00", "06:00", true))
	rec, err := s.GetRecord(ctx, "15.03.2024")
	require.NoError(t, err)
	assert.Equal(t, "8.00", rec.Hours)
	assert.Empty(t, rec.Revenue)
	assert.Empty(t, rec.Tips)
	assert.Equal(t, "1760.00", rec.Profit)
}

func TestEmptyStore_AbsenceIsNotZero(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	exists, err := s.ShiftExists(ctx, "01.01.2099")
	require.NoError(t, err)
	assert.False(t, exists)

	profit, found, err := s.GetProfit(ctx, "01.01.2099")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, profit)

	rec, err := s.GetRecord(ctx, "01.01.2099")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDeleteShift(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	require.NoError(t, s.AddOrUpdateShift(ctx, "15.03.2024", "09:00", "18:00", false))

	require.NoError(t, s.DeleteShift(ctx, "15.03.2024"))
	assert.ErrorIs(t, s.DeleteShift(ctx, "15.03.2024"), domain.ErrNotFound)

	exists, err := s.ShiftExists(ctx, "15.03.2024")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListAllShifts_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	dates := []string{"17.03.2024", "15.03.2024", "16.03.2024"}
	for _, d := range dates {
		require.NoError(t, s.AddOrUpdateShift(ctx, d, "09:00", "18:00", false))
	}

	records, err := s.ListAllShifts(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, d := range dates {
		assert.Equal(t, d, records[i].Date)
	}
}

func TestBatchApplyWindow_Partitioning(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	require.NoError(t, s.AddOrUpdateShift(ctx, "12.03.2024", "10:00", "16:00", false))
	require.NoError(t, s.SetField(ctx, "12.03.2024", domain.FieldTips, "500"))
	require.NoError(t, s.AddOrUpdateShift(ctx, "14.03.2024", "10:00", "16:00", false))

	input := []string{"11.03.2024", "12.03.2024", "13.03.2024", "14.03.2024", "15.03.2024"}
	res, err := s.BatchApplyWindow(ctx, input, "09:00", "18:00")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"12.03.2024", "14.03.2024"}, res.Overwritten)
	assert.ElementsMatch(t, []string{"11.03.2024", "13.03.2024", "15.03.2024"}, res.New)
	assert.Empty(t, res.Failed)
	assert.ElementsMatch(t, input, append(append([]string{}, res.New...), res.Overwritten...))

	// Перезаписанные дни получили новое окно и сброшенные финансы.
	rec, err := s.GetRecord(ctx, "12.03.2024")
	require.NoError(t, err)
	assert.Equal(t, "09:00", rec.Start)
	assert.Equal(t, "9.00", rec.Hours)
	assert.Empty(t, rec.Tips)
	assert.Equal(t, "1980.00", rec.Profit)
}

func TestBatchApplyWindow_BadDateDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	res, err := s.BatchApplyWindow(ctx, []string{"11.03.2024", "не дата", "13.03.2024"}, "09:00", "18:00")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"11.03.2024", "13.03.2024"}, res.New)
	assert.Equal(t, []string{"не дата"}, res.Failed)
}

func TestBatchApplyWindow_BadWindow(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	_, err := s.BatchApplyWindow(ctx, []string{"11.03.2024"}, "9 утра", "18:00")
	assert.True(t, domain.IsFormat(err))
}

func TestMonthlySummary(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	require.NoError(t, s.AddOrUpdateShift(ctx, "15.03.2024", "09:00", "18:00", false))
	require.NoError(t, s.AddOrUpdateShift(ctx, "16.03.2024", "22:00", "06:00", false))
	require.NoError(t, s.AddOrUpdateShift(ctx, "01.04.2024", "09:00", "18:00", false))

	sum, err := s.MonthlySummary(ctx, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Shifts)
	assert.Equal(t, "17.00", sum.Hours)
	assert.Equal(t, "3740.00", sum.Profit) // 1980 + 1760
}
