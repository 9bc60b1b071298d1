package services

import "time"

// 数据窗口计算
// 洞察生成使用"上一个完整周期"：昨天、上一个自然周（周一到周日）、上一个自然月；
// 标签追踪图表使用当前周期。所有窗口均为[当日00:00:00, 当日23:59:59]闭区间。

// DayWindow 返回d所在自然日的窗口
func DayWindow(d time.Time) (time.Time, time.Time) {
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
	return start, end
}

// LastDayWindow 返回now前一个自然日的窗口
func LastDayWindow(now time.Time) (time.Time, time.Time) {
	return DayWindow(now.AddDate(0, 0, -1))
}

// weekStart 返回d所在周的周一00:00:00
func weekStart(d time.Time) time.Time {
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7 // 周日视为一周的第7天
	}
	monday := d.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, d.Location())
}

// CurrentWeekWindow 返回now所在自然周（周一到周日）的窗口
func CurrentWeekWindow(now time.Time) (time.Time, time.Time) {
	start := weekStart(now)
	sunday := start.AddDate(0, 0, 6)
	end := time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, now.Location())
	return start, end
}

// LastWeekWindow 返回now前一个完整自然周的窗口
func LastWeekWindow(now time.Time) (time.Time, time.Time) {
	return CurrentWeekWindow(weekStart(now).AddDate(0, 0, -7))
}

// CurrentMonthWindow 返回now所在自然月的窗口
func CurrentMonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastDay := start.AddDate(0, 1, -1)
	end := time.Date(lastDay.Year(), lastDay.Month(), lastDay.Day(), 23, 59, 59, 0, now.Location())
	return start, end
}

// LastMonthWindow 返回now前一个完整自然月的窗口
func LastMonthWindow(now time.Time) (time.Time, time.Time) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return CurrentMonthWindow(firstOfMonth.AddDate(0, 0, -1))
}
