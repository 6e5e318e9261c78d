package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, daysInMonth(2024, 1))
	assert.Equal(t, 29, daysInMonth(2024, 2)) // високосный
	assert.Equal(t, 28, daysInMonth(2023, 2))
	assert.Equal(t, 30, daysInMonth(2024, 4))
}

func TestSplitDateData(t *testing.T) {
	assert.Equal(t, []string{"15", "3", "2024"}, SplitDateData("15-3-2024"))
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Март", monthName(time.March))
}
