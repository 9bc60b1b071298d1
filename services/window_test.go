package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestDayWindow(t *testing.T) {
	start, end := DayWindow(date(2026, time.August, 19, 15))
	assert.Equal(t, date(2026, time.August, 19, 0), start)
	assert.Equal(t, time.Date(2026, time.August, 19, 23, 59, 59, 0, time.UTC), end)
}

func TestLastDayWindow(t *testing.T) {
	start, end := LastDayWindow(date(2026, time.August, 1, 9))
	// 跨月：8月1日的前一天是7月31日
	assert.Equal(t, date(2026, time.July, 31, 0), start)
	assert.Equal(t, time.Date(2026, time.July, 31, 23, 59, 59, 0, time.UTC), end)
}

func TestCurrentWeekWindow(t *testing.T) {
	// 2026-08-19是周三，所在周为08-17（周一）到08-23（周日）
	start, end := CurrentWeekWindow(date(2026, time.August, 19, 12))
	assert.Equal(t, date(2026, time.August, 17, 0), start)
	assert.Equal(t, time.Date(2026, time.August, 23, 23, 59, 59, 0, time.UTC), end)
}

func TestCurrentWeekWindowOnSunday(t *testing.T) {
	// 周日属于本周，而不是下周的第一天
	start, end := CurrentWeekWindow(date(2026, time.August, 23, 8))
	assert.Equal(t, date(2026, time.August, 17, 0), start)
	assert.Equal(t, time.Date(2026, time.August, 23, 23, 59, 59, 0, time.UTC), end)
}

func TestCurrentWeekWindowOnMonday(t *testing.T) {
	start, end := CurrentWeekWindow(date(2026, time.August, 17, 0))
	assert.Equal(t, date(2026, time.August, 17, 0), start)
	assert.Equal(t, time.Date(2026, time.August, 23, 23, 59, 59, 0, time.UTC), end)
}

func TestLastWeekWindow(t *testing.T) {
	// 周一早上跑定时任务时，上一周是08-10到08-16
	start, end := LastWeekWindow(date(2026, time.August, 17, 5))
	assert.Equal(t, date(2026, time.August, 10, 0), start)
	assert.Equal(t, time.Date(2026, time.August, 16, 23, 59, 59, 0, time.UTC), end)
}

func TestCurrentMonthWindow(t *testing.T) {
	start, end := CurrentMonthWindow(date(2026, time.February, 14, 10))
	assert.Equal(t, date(2026, time.February, 1, 0), start)
	// 2026年2月有28天
	assert.Equal(t, time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC), end)
}

func TestLastMonthWindow(t *testing.T) {
	start, end := LastMonthWindow(date(2026, time.March, 1, 5))
	assert.Equal(t, date(2026, time.February, 1, 0), start)
	assert.Equal(t, time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC), end)

	// 跨年：1月的上一个月是去年12月
	start, end = LastMonthWindow(date(2026, time.January, 15, 12))
	assert.Equal(t, date(2025, time.December, 1, 0), start)
	assert.Equal(t, time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC), end)
}
