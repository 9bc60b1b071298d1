package services

import (
	"context"
	"fmt"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/repositories"
	"go.uber.org/zap"
)

// defaultTrackingMinEntries 图表需要的最少条目数
const defaultTrackingMinEntries = 3

// TagTrackingService 标签追踪统计服务
// 提供热力图、标签气泡图、按标签的情绪分布与趋势曲线，图表结果走Redis缓存
type TagTrackingService struct {
	entries    repositories.EntryRepository
	entryTags  repositories.EntryTagRepository
	cache      ChartCache
	minEntries int
	logger     *zap.SugaredLogger
}

// NewTagTrackingService 创建标签追踪服务
func NewTagTrackingService(
	entries repositories.EntryRepository,
	entryTags repositories.EntryTagRepository,
	cache ChartCache,
	minEntries int,
	logger *zap.SugaredLogger,
) *TagTrackingService {
	if minEntries <= 0 {
		minEntries = defaultTrackingMinEntries
	}
	return &TagTrackingService{
		entries:    entries,
		entryTags:  entryTags,
		cache:      cache,
		minEntries: minEntries,
		logger:     logger,
	}
}

func heatmapCacheKey(userID string, start, end time.Time) string {
	return fmt.Sprintf("guanwo:charts:heatmap:%s:%s:%s",
		userID, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

func bubbleCacheKey(userID string, start, end time.Time, allowAllTags bool) string {
	return fmt.Sprintf("guanwo:charts:bubble:%s:%s:%s:%t",
		userID, start.Format("2006-01-02"), end.Format("2006-01-02"), allowAllTags)
}

// ActivityHeatmap 记录热力图：窗口内每一天的条目数与字数，没有记录的日期补零
func (s *TagTrackingService) ActivityHeatmap(ctx context.Context, userID string, start, end time.Time) ([]models.DailyEntryStat, error) {
	key := heatmapCacheKey(userID, start, end)
	var cached []models.DailyEntryStat
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	stats, err := s.entries.DailyStats(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]models.DailyEntryStat, len(stats))
	for _, stat := range stats {
		byDate[stat.Date] = stat
	}

	points := make([]models.DailyEntryStat, 0)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		stat := byDate[date]
		stat.Date = date
		points = append(points, stat)
	}

	s.cache.Set(ctx, key, points, chartCacheTTL)
	return points, nil
}

// TagBubbleChart 标签气泡图：窗口内各标签的关联条目数
// 免费档位只展示默认标签集
func (s *TagTrackingService) TagBubbleChart(ctx context.Context, userID string, start, end time.Time, allowAllTags bool) ([]models.TagBubble, error) {
	key := bubbleCacheKey(userID, start, end, allowAllTags)
	var cached []models.TagBubble
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	entries, err := s.entries.ListInRange(ctx, userID, start, end, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.TagBubble{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	bubbles, err := s.entryTags.CountByTag(ctx, ids)
	if err != nil {
		return nil, err
	}
	if !allowAllTags {
		filtered := make([]models.TagBubble, 0, len(bubbles))
		for _, bubble := range bubbles {
			if IsDefaultTag(bubble.TagName) {
				filtered = append(filtered, bubble)
			}
		}
		bubbles = filtered
	}

	s.cache.Set(ctx, key, bubbles, chartCacheTTL)
	return bubbles, nil
}

// DataHealth 窗口内数据量是否足够出图
func (s *TagTrackingService) DataHealth(ctx context.Context, userID string, start, end time.Time) (*models.TrackingHealth, error) {
	stats, err := s.entries.DailyStats(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	entryCount := 0
	for _, stat := range stats {
		entryCount += stat.Count
	}
	return &models.TrackingHealth{
		EntryCount:    entryCount,
		ActiveDays:    len(stats),
		HasEnoughData: entryCount >= s.minEntries,
	}, nil
}

// entriesForTag 取窗口内关联了指定标签的条目，可再按情绪过滤
func (s *TagTrackingService) entriesForTag(ctx context.Context, userID, tagID string, start, end time.Time, emotion string) ([]models.Entry, error) {
	entryIDs, err := s.entryTags.ListEntryIDsByTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if len(entryIDs) == 0 {
		return []models.Entry{}, nil
	}
	tagged := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		tagged[id] = true
	}

	entries, err := s.entries.ListInRange(ctx, userID, start, end, emotion, 0, 0)
	if err != nil {
		return nil, err
	}
	matched := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if tagged[entry.ID] {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// EmotionDistributionByTag 某标签下条目的情绪分布
func (s *TagTrackingService) EmotionDistributionByTag(ctx context.Context, userID, tagID string, start, end time.Time) (*models.EmotionDistribution, error) {
	entries, err := s.entriesForTag(ctx, userID, tagID, start, end, "")
	if err != nil {
		return nil, err
	}

	dist := &models.EmotionDistribution{}
	for _, entry := range entries {
		switch entry.Emotion {
		case string(models.EmotionPositive):
			dist.Positive++
		case string(models.EmotionNeutral):
			dist.Neutral++
		case string(models.EmotionNegative):
			dist.Negative++
		}
	}
	dist.Total = dist.Positive + dist.Neutral + dist.Negative
	if dist.Total > 0 {
		dist.PositivePercent = float64(dist.Positive) / float64(dist.Total) * 100
		dist.NeutralPercent = float64(dist.Neutral) / float64(dist.Total) * 100
		dist.NegativePercent = float64(dist.Negative) / float64(dist.Total) * 100
	}
	return dist, nil
}

// EmotionTrendByTag 某标签下条目的每日情绪得分曲线
func (s *TagTrackingService) EmotionTrendByTag(ctx context.Context, userID, tagID string, start, end time.Time) ([]models.EmotionTrendPoint, error) {
	entries, err := s.entriesForTag(ctx, userID, tagID, start, end, "")
	if err != nil {
		return nil, err
	}
	return emotionTrend(entries, start, end), nil
}

// EntriesByTagAndEmotion 标签加情绪的下钻条目列表，offset/limit在过滤后生效
func (s *TagTrackingService) EntriesByTagAndEmotion(ctx context.Context, userID, tagID string, start, end time.Time, emotion string, limit, offset int) ([]models.Entry, error) {
	entries, err := s.entriesForTag(ctx, userID, tagID, start, end, emotion)
	if err != nil {
		return nil, err
	}
	if offset >= len(entries) {
		return []models.Entry{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}
