package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/repositories"
	"github.com/XiaoTongYuCode/guan-wo/utils"
	"go.uber.org/zap"
)

// 洞察生成默认阈值
const (
	defaultMinEmotionMapEntries = 3 // 情绪地图需要的最少条目数
	defaultMinGratitudeEntries  = 1 // 感恩清单需要的最少积极条目数
)

// InsightOptions 洞察生成参数，时钟与随机源可注入以便测试
type InsightOptions struct {
	MinEmotionMapEntries int
	MinGratitudeEntries  int
	Now                  func() time.Time
	RandIntn             func(int) int
}

func (o *InsightOptions) withDefaults() {
	if o.MinEmotionMapEntries <= 0 {
		o.MinEmotionMapEntries = defaultMinEmotionMapEntries
	}
	if o.MinGratitudeEntries <= 0 {
		o.MinGratitudeEntries = defaultMinGratitudeEntries
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.RandIntn == nil {
		o.RandIntn = rand.Intn
	}
}

// InsightService 洞察卡片服务
// 卡片按(用户, 类型, 数据窗口)幂等生成：窗口已有卡片时返回该类型最近一张未隐藏卡片。
// 存在性检查与写入未加锁，并发生成同一窗口可能产生重复卡片，读路径始终取最新一张。
type InsightService struct {
	entries repositories.EntryRepository
	cards   repositories.InsightCardRepository
	configs *InsightConfigService
	chat    ChatModel
	logger  *zap.SugaredLogger
	opts    InsightOptions
}

// NewInsightService 创建洞察服务
func NewInsightService(
	entries repositories.EntryRepository,
	cards repositories.InsightCardRepository,
	configs *InsightConfigService,
	chat ChatModel,
	logger *zap.SugaredLogger,
	opts InsightOptions,
) *InsightService {
	opts.withDefaults()
	return &InsightService{
		entries: entries,
		cards:   cards,
		configs: configs,
		chat:    chat,
		logger:  logger,
		opts:    opts,
	}
}

// cardBuilder 组装某类卡片的content，数据不足时返回ErrInsufficientData
type cardBuilder func(ctx context.Context, userID string, start, end time.Time) (interface{}, error)

// existenceConfigID 窗口去重的配置维度
// 系统卡片按类型去重；自定义卡片可能多个配置共享窗口，按配置去重
func existenceConfigID(cardType, configID string) string {
	if cardType == models.CardTypeCustom {
		return configID
	}
	return ""
}

func (s *InsightService) generateCard(ctx context.Context, userID, cardType string, config *models.InsightCardConfig, start, end time.Time, build cardBuilder) (*models.InsightCard, error) {
	scopeID := existenceConfigID(cardType, config.ID)
	exists, err := s.cards.Exists(ctx, userID, cardType, start, end, scopeID)
	if err != nil {
		return nil, err
	}
	if exists {
		latest, err := s.cards.LatestVisible(ctx, userID, cardType, scopeID)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			return nil, fmt.Errorf("该时间范围的卡片已生成且均被隐藏")
		}
		return latest, nil
	}

	content, err := build(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	card := &models.InsightCard{
		UserID:        userID,
		CardType:      cardType,
		ConfigID:      config.ID,
		DataStartTime: start,
		DataEndTime:   end,
		GeneratedAt:   s.opts.Now(),
	}
	if err := card.SetContent(content); err != nil {
		return nil, err
	}
	if err := s.cards.Create(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Infow("生成洞察卡片成功", "cardID", card.ID, "userID", userID, "cardType", cardType)
	return card, nil
}

// GenerateDailyAffirmation 生成每日寄语，数据窗口为前一个自然日
func (s *InsightService) GenerateDailyAffirmation(ctx context.Context, userID string) (*models.InsightCard, error) {
	config, err := s.configs.RequireEnabled(ctx, userID, models.CardTypeDailyAffirmation)
	if err != nil {
		return nil, err
	}
	start, end := LastDayWindow(s.opts.Now())
	return s.generateCard(ctx, userID, models.CardTypeDailyAffirmation, config, start, end, s.buildAffirmationContent)
}

func (s *InsightService) buildAffirmationContent(ctx context.Context, userID string, start, end time.Time) (interface{}, error) {
	entries, err := s.entries.ListAnalyzedInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	var affirmation string
	if len(entries) == 0 {
		// 昨天没有记录，从预设寄语库随机选取
		affirmation = defaultAffirmations[s.opts.RandIntn(len(defaultAffirmations))]
	} else {
		affirmation = s.affirmationByEmotion(ctx, entries)
	}
	return models.AffirmationContent{Affirmation: affirmation}, nil
}

// affirmationByEmotion 按昨日情绪占比选择提示词生成寄语，LLM失败退回预设寄语库
func (s *InsightService) affirmationByEmotion(ctx context.Context, entries []models.Entry) string {
	stats := emotionStats(entries)
	total := stats[string(models.EmotionPositive)] + stats[string(models.EmotionNeutral)] + stats[string(models.EmotionNegative)]

	userPrompt := affirmationUserPromptNeutral
	if total > 0 {
		positiveRatio := float64(stats[string(models.EmotionPositive)]) / float64(total)
		negativeRatio := float64(stats[string(models.EmotionNegative)]) / float64(total)
		if positiveRatio > 0.6 {
			userPrompt = affirmationUserPromptPositive
		} else if negativeRatio > 0.6 {
			userPrompt = affirmationUserPromptNegative
		}
	}

	text, err := s.chat.Chat(ctx, dailyAffirmationSystemPrompt, userPrompt, 0.8)
	if err != nil {
		s.logger.Errorw("生成每日寄语失败，使用预设寄语", "error", err)
		return defaultAffirmations[s.opts.RandIntn(len(defaultAffirmations))]
	}
	return strings.TrimSpace(text)
}

// GenerateWeeklyEmotionMap 生成每周情绪地图，数据窗口为上一个自然周
func (s *InsightService) GenerateWeeklyEmotionMap(ctx context.Context, userID string) (*models.InsightCard, error) {
	config, err := s.configs.RequireEnabled(ctx, userID, models.CardTypeWeeklyEmotionMap)
	if err != nil {
		return nil, err
	}
	start, end := LastWeekWindow(s.opts.Now())
	return s.generateCard(ctx, userID, models.CardTypeWeeklyEmotionMap, config, start, end, s.buildEmotionMapContent)
}

func (s *InsightService) buildEmotionMapContent(ctx context.Context, userID string, start, end time.Time) (interface{}, error) {
	entries, err := s.entries.ListAnalyzedInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(entries) < s.opts.MinEmotionMapEntries {
		s.logger.Infow("周记录不足，无法生成情绪地图", "userID", userID, "count", len(entries))
		return nil, ErrInsufficientData
	}

	stats := emotionStats(entries)
	scores := emotionTrend(entries, start, end)
	summary := s.emotionSummary(ctx, stats, scores)

	return models.EmotionMapContent{
		EmotionStats: stats,
		DailyScores:  scores,
		Summary:      summary,
	}, nil
}

// emotionSummary 生成情绪波动解读，LLM失败时退回模板文案
func (s *InsightService) emotionSummary(ctx context.Context, stats map[string]int, scores []models.EmotionTrendPoint) string {
	total := stats[string(models.EmotionPositive)] + stats[string(models.EmotionNeutral)] + stats[string(models.EmotionNegative)]
	positiveRatio := 0.0
	if total > 0 {
		positiveRatio = float64(stats[string(models.EmotionPositive)]) / float64(total)
	}

	// 得分相同时取更早的一天
	maxDay, minDay := scores[0], scores[0]
	for _, point := range scores[1:] {
		if point.Score > maxDay.Score {
			maxDay = point
		}
		if point.Score < minDay.Score {
			minDay = point
		}
	}

	userPrompt := fmt.Sprintf(emotionSummaryUserPromptFmt,
		stats[string(models.EmotionPositive)],
		stats[string(models.EmotionNeutral)],
		stats[string(models.EmotionNegative)],
		positiveRatio*100,
		maxDay.Date, maxDay.Score,
		minDay.Date, minDay.Score,
	)

	text, err := s.chat.Chat(ctx, emotionSummarySystemPrompt, userPrompt, 0.5)
	if err != nil {
		s.logger.Errorw("生成情绪摘要失败，使用模板文案", "error", err)
		return fmt.Sprintf("本周整体情绪积极率为%.1f%%，情绪最高的一天是%s，最低的一天是%s。",
			positiveRatio*100, maxDay.Date, minDay.Date)
	}
	return strings.TrimSpace(text)
}

// GenerateWeeklyGratitudeList 生成每周感恩清单，数据窗口为上一个自然周
func (s *InsightService) GenerateWeeklyGratitudeList(ctx context.Context, userID string) (*models.InsightCard, error) {
	config, err := s.configs.RequireEnabled(ctx, userID, models.CardTypeWeeklyGratitude)
	if err != nil {
		return nil, err
	}
	start, end := LastWeekWindow(s.opts.Now())
	return s.generateCard(ctx, userID, models.CardTypeWeeklyGratitude, config, start, end, s.buildGratitudeContent)
}

func (s *InsightService) buildGratitudeContent(ctx context.Context, userID string, start, end time.Time) (interface{}, error) {
	entries, err := s.entries.ListAnalyzedInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	positives := make([]models.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.Emotion == string(models.EmotionPositive) {
			positives = append(positives, entry)
		}
	}
	if len(positives) < s.opts.MinGratitudeEntries {
		s.logger.Infow("积极事件不足，无法生成感恩清单", "userID", userID, "count", len(positives))
		return nil, ErrInsufficientData
	}

	selected := selectRepresentativeEntries(positives, 5)
	events := make([]models.GratitudeEvent, 0, len(selected))
	for _, entry := range selected {
		events = append(events, models.GratitudeEvent{
			ID:        entry.ID,
			Content:   utils.TruncateRunes(entry.Content, 100),
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return models.GratitudeContent{Events: events}, nil
}

// selectRepresentativeEntries 按字数降序取前limit条，字数相同保持原有顺序
func selectRepresentativeEntries(entries []models.Entry, limit int) []models.Entry {
	sorted := make([]models.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WordCount > sorted[j].WordCount
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// GenerateCustomCard 依据自定义配置生成洞察卡片，窗口由配置的time_range决定
func (s *InsightService) GenerateCustomCard(ctx context.Context, userID, configID string) (*models.InsightCard, error) {
	config, err := s.configs.GetOwned(ctx, userID, configID)
	if err != nil {
		return nil, err
	}
	if config.IsSystem {
		// 系统配置走各自的生成入口
		return nil, ErrNotFound
	}
	if !config.IsEnabled {
		return nil, ErrConfigDisabled
	}

	start, end := windowForTimeRange(config.TimeRange, s.opts.Now())
	build := func(ctx context.Context, userID string, start, end time.Time) (interface{}, error) {
		return s.buildCustomContent(ctx, config, userID, start, end)
	}
	return s.generateCard(ctx, userID, models.CardTypeCustom, config, start, end, build)
}

func (s *InsightService) buildCustomContent(ctx context.Context, config *models.InsightCardConfig, userID string, start, end time.Time) (interface{}, error) {
	entries, err := s.entries.ListAnalyzedInRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		s.logger.Infow("窗口内无记录，无法生成自定义洞察", "userID", userID, "configID", config.ID)
		return nil, ErrInsufficientData
	}

	summary, err := s.chat.Chat(ctx, config.Prompt, entriesDigest(entries), 0.7)
	if err != nil {
		s.logger.Errorw("生成自定义洞察失败", "configID", config.ID, "error", err)
		return nil, fmt.Errorf("生成自定义洞察失败: %w", err)
	}
	return models.CustomCardContent{
		Summary:    strings.TrimSpace(summary),
		EntryCount: len(entries),
	}, nil
}

// entriesDigest 将条目整理为供LLM阅读的纯文本摘要
func entriesDigest(entries []models.Entry) string {
	var sb strings.Builder
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("- %s [%s]\n", entry.CreatedAt.Format("2006-01-02"), entry.Emotion))
		sb.WriteString(fmt.Sprintf("  %s\n", utils.TruncateRunes(entry.Content, 200)))
	}
	return sb.String()
}

// windowForTimeRange 依据配置的时间范围取上一个完整周期
func windowForTimeRange(timeRange string, now time.Time) (time.Time, time.Time) {
	switch timeRange {
	case models.TimeRangeWeekly:
		return LastWeekWindow(now)
	case models.TimeRangeMonthly:
		return LastMonthWindow(now)
	default:
		return LastDayWindow(now)
	}
}

// ListCards 获取洞察卡片列表
// 停用配置生成的卡片不返回；早期卡片没有config_id时按卡片类型判断
func (s *InsightService) ListCards(ctx context.Context, userID, cardType string, includeHidden bool, limit, offset int) ([]models.InsightCard, error) {
	cards, err := s.cards.ListByUser(ctx, userID, cardType, includeHidden, limit, offset)
	if err != nil {
		return nil, err
	}

	configs, err := s.configs.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	disabledIDs := make(map[string]bool)
	disabledTypes := make(map[string]bool)
	for _, config := range configs {
		if config.IsEnabled {
			continue
		}
		disabledIDs[config.ID] = true
		if config.IsSystem {
			disabledTypes[config.CardType] = true
		}
	}

	filtered := make([]models.InsightCard, 0, len(cards))
	for _, card := range cards {
		if card.ConfigID != "" && disabledIDs[card.ConfigID] {
			continue
		}
		if card.ConfigID == "" && disabledTypes[card.CardType] {
			continue
		}
		filtered = append(filtered, card)
	}
	return filtered, nil
}

// GetCard 获取卡片详情并标记已读
func (s *InsightService) GetCard(ctx context.Context, userID, cardID string) (*models.InsightCard, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.cards.MarkViewed(ctx, cardID); err != nil {
		s.logger.Errorw("标记卡片已读失败", "cardID", cardID, "error", err)
	} else {
		card.IsViewed = true
		card.ViewCount++
	}
	return card, nil
}

func (s *InsightService) ownedCard(ctx context.Context, userID, cardID string) (*models.InsightCard, error) {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card == nil || card.UserID != userID {
		return nil, ErrNotFound
	}
	return card, nil
}

// HideCard 隐藏卡片
func (s *InsightService) HideCard(ctx context.Context, userID, cardID string) (*models.InsightCard, error) {
	return s.setCardHidden(ctx, userID, cardID, true)
}

// ShowCard 取消隐藏卡片
func (s *InsightService) ShowCard(ctx context.Context, userID, cardID string) (*models.InsightCard, error) {
	return s.setCardHidden(ctx, userID, cardID, false)
}

func (s *InsightService) setCardHidden(ctx context.Context, userID, cardID string, hidden bool) (*models.InsightCard, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.cards.SetHidden(ctx, cardID, hidden); err != nil {
		return nil, err
	}
	card.IsHidden = hidden
	return card, nil
}

// ShareCard 累加卡片分享计数
func (s *InsightService) ShareCard(ctx context.Context, userID, cardID string) (*models.InsightCard, error) {
	card, err := s.ownedCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.cards.IncrementShareCount(ctx, cardID); err != nil {
		return nil, err
	}
	card.ShareCount++
	return card, nil
}

// GenerateDueCards 生成该用户当天到期的全部洞察卡片
// 每日寄语每天生成；周卡片周一生成；自定义配置按各自time_range到期
func (s *InsightService) GenerateDueCards(ctx context.Context, userID string) {
	now := s.opts.Now()

	if _, err := s.GenerateDailyAffirmation(ctx, userID); err != nil {
		s.logGenerateResult(models.CardTypeDailyAffirmation, userID, err)
	}
	if now.Weekday() == time.Monday {
		if _, err := s.GenerateWeeklyEmotionMap(ctx, userID); err != nil {
			s.logGenerateResult(models.CardTypeWeeklyEmotionMap, userID, err)
		}
		if _, err := s.GenerateWeeklyGratitudeList(ctx, userID); err != nil {
			s.logGenerateResult(models.CardTypeWeeklyGratitude, userID, err)
		}
	}

	configs, err := s.configs.List(ctx, userID)
	if err != nil {
		s.logger.Errorw("加载洞察配置失败", "userID", userID, "error", err)
		return
	}
	for _, config := range configs {
		if config.IsSystem || !config.IsEnabled {
			continue
		}
		due := config.TimeRange == models.TimeRangeDaily ||
			(config.TimeRange == models.TimeRangeWeekly && now.Weekday() == time.Monday) ||
			(config.TimeRange == models.TimeRangeMonthly && now.Day() == 1)
		if !due {
			continue
		}
		if _, err := s.GenerateCustomCard(ctx, userID, config.ID); err != nil {
			s.logGenerateResult(models.CardTypeCustom, userID, err)
		}
	}
}

// logGenerateResult 定时生成容忍预期内的跳过，只对真实故障报错
func (s *InsightService) logGenerateResult(cardType, userID string, err error) {
	if errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrConfigDisabled) {
		s.logger.Infow("跳过洞察卡片生成", "cardType", cardType, "userID", userID, "reason", err.Error())
		return
	}
	s.logger.Errorw("定时生成洞察卡片失败", "cardType", cardType, "userID", userID, "error", err)
}

// RunDailySweep 扫描近期活跃用户并生成到期的洞察卡片，供定时任务与内部接口调用
func (s *InsightService) RunDailySweep(ctx context.Context) {
	now := s.opts.Now()

	// 扫描窗口覆盖本次要生成的最大周期，保证周/月卡片不漏掉窗口内活跃的用户
	start, end := LastDayWindow(now)
	if now.Weekday() == time.Monday {
		start, end = LastWeekWindow(now)
	}
	if now.Day() == 1 {
		start, end = LastMonthWindow(now)
	}

	userIDs, err := s.entries.DistinctUserIDs(ctx, start, end)
	if err != nil {
		s.logger.Errorw("洞察定时任务查询活跃用户失败", "error", err)
		return
	}

	s.logger.Infow("洞察定时任务开始", "userCount", len(userIDs))
	for _, userID := range userIDs {
		s.GenerateDueCards(ctx, userID)
	}
	s.logger.Infow("洞察定时任务完成", "userCount", len(userIDs))
}
