package services

import (
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
)

// emotionStats 统计条目集合的情绪分布
func emotionStats(entries []models.Entry) map[string]int {
	stats := map[string]int{
		string(models.EmotionPositive): 0,
		string(models.EmotionNeutral):  0,
		string(models.EmotionNegative): 0,
	}
	for _, entry := range entries {
		if _, ok := stats[entry.Emotion]; ok {
			stats[entry.Emotion]++
		}
	}
	return stats
}

// emotionTrend 按天计算窗口内的情绪得分曲线
// 得分为当日积极条目占比，无记录的日期得分为0
func emotionTrend(entries []models.Entry, start, end time.Time) []models.EmotionTrendPoint {
	type dayCount struct {
		positive int
		total    int
	}
	byDate := make(map[string]*dayCount)
	for _, entry := range entries {
		date := entry.CreatedAt.Format("2006-01-02")
		counts, ok := byDate[date]
		if !ok {
			counts = &dayCount{}
			byDate[date] = counts
		}
		counts.total++
		if entry.Emotion == string(models.EmotionPositive) {
			counts.positive++
		}
	}

	points := make([]models.EmotionTrendPoint, 0)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		point := models.EmotionTrendPoint{Date: date}
		if counts, ok := byDate[date]; ok {
			point.PositiveCount = counts.positive
			point.TotalCount = counts.total
			point.Score = float64(counts.positive) / float64(counts.total)
		}
		points = append(points, point)
	}
	return points
}
