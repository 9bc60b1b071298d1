package services

import (
	"context"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// customConfigLimit 每用户自定义配置上限
	customConfigLimit = 10
	// customSortOrderBase 自定义配置的排序区间起点，始终排在系统配置之后
	customSortOrderBase = 100
)

// systemConfigDefaults 内置洞察配置，按固定顺序补齐
var systemConfigDefaults = []struct {
	Name      string
	CardType  string
	TimeRange string
	Prompt    string
}{
	{"每日寄语", models.CardTypeDailyAffirmation, models.TimeRangeDaily, dailyAffirmationSystemPrompt},
	{"每周情绪地图", models.CardTypeWeeklyEmotionMap, models.TimeRangeWeekly, emotionSummarySystemPrompt},
	{"每周感恩清单", models.CardTypeWeeklyGratitude, models.TimeRangeWeekly, ""},
}

// InsightConfigService 洞察配置注册表
// 每用户三条系统配置在读路径上惰性补齐，系统配置只能停用不能删除
type InsightConfigService struct {
	runTx   TxRunner
	configs repositories.InsightConfigRepository
	logger  *zap.SugaredLogger
}

// NewInsightConfigService 创建洞察配置服务
func NewInsightConfigService(runTx TxRunner, configs repositories.InsightConfigRepository, logger *zap.SugaredLogger) *InsightConfigService {
	return &InsightConfigService{runTx: runTx, configs: configs, logger: logger}
}

// EnsureDefaults 确保该用户的系统配置齐全且关键字段未漂移
// 幂等，可在任意读路径反复调用；不会触碰is_enabled，停用状态由用户掌控
func (s *InsightConfigService) EnsureDefaults(ctx context.Context, userID string) error {
	existing, err := s.configs.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	byType := make(map[string]*models.InsightCardConfig)
	for i := range existing {
		if existing[i].CardType != models.CardTypeCustom {
			byType[existing[i].CardType] = &existing[i]
		}
	}

	for idx, def := range systemConfigDefaults {
		current := byType[def.CardType]
		if current == nil {
			config := &models.InsightCardConfig{
				UserID:    userID,
				Name:      def.Name,
				CardType:  def.CardType,
				TimeRange: def.TimeRange,
				Prompt:    def.Prompt,
				SortOrder: idx,
				IsEnabled: true,
				IsSystem:  true,
			}
			if err := s.configs.Create(ctx, config); err != nil {
				return err
			}
			s.logger.Infow("补齐系统洞察配置", "userID", userID, "cardType", def.CardType)
			continue
		}

		values := map[string]interface{}{}
		if !current.IsSystem {
			values["is_system"] = true
		}
		if current.SortOrder != idx {
			values["sort_order"] = idx
		}
		if current.TimeRange != def.TimeRange {
			values["time_range"] = def.TimeRange
		}
		if len(values) > 0 {
			if err := s.configs.Update(ctx, current.ID, values); err != nil {
				return err
			}
			s.logger.Infow("修正系统洞察配置", "userID", userID, "cardType", def.CardType)
		}
	}
	return nil
}

// List 获取配置列表，按sort_order排序，首次访问自动补齐系统配置
func (s *InsightConfigService) List(ctx context.Context, userID string) ([]models.InsightCardConfig, error) {
	if err := s.EnsureDefaults(ctx, userID); err != nil {
		return nil, err
	}
	return s.configs.ListByUser(ctx, userID)
}

// RequireEnabled 取某类型的系统配置并校验启用状态
func (s *InsightConfigService) RequireEnabled(ctx context.Context, userID, cardType string) (*models.InsightCardConfig, error) {
	if err := s.EnsureDefaults(ctx, userID); err != nil {
		return nil, err
	}
	config, err := s.configs.GetSystemByType(ctx, userID, cardType)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ErrNotFound
	}
	if !config.IsEnabled {
		return nil, ErrConfigDisabled
	}
	return config, nil
}

// GetOwned 取归属该用户的配置，否则统一返回ErrNotFound
func (s *InsightConfigService) GetOwned(ctx context.Context, userID, configID string) (*models.InsightCardConfig, error) {
	config, err := s.configs.GetByID(ctx, configID)
	if err != nil {
		return nil, err
	}
	if config == nil || config.UserID != userID {
		return nil, ErrNotFound
	}
	return config, nil
}

// CreateCustom 创建自定义洞察配置，上限customConfigLimit个
func (s *InsightConfigService) CreateCustom(ctx context.Context, userID string, req *models.CreateInsightConfigRequest) (*models.InsightCardConfig, error) {
	if err := s.EnsureDefaults(ctx, userID); err != nil {
		return nil, err
	}
	count, err := s.configs.CountCustom(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= customConfigLimit {
		return nil, ErrConfigLimit
	}

	config := &models.InsightCardConfig{
		UserID:    userID,
		Name:      req.Name,
		CardType:  models.CardTypeCustom,
		TimeRange: req.TimeRange,
		Prompt:    req.Prompt,
		SortOrder: customSortOrderBase + int(count),
		IsEnabled: true,
		IsSystem:  false,
	}
	if err := s.configs.Create(ctx, config); err != nil {
		return nil, err
	}
	s.logger.Infow("创建自定义洞察配置", "userID", userID, "configID", config.ID)
	return config, nil
}

// UpdateCustom 更新自定义配置，系统配置不可修改
func (s *InsightConfigService) UpdateCustom(ctx context.Context, userID, configID string, req *models.UpdateInsightConfigRequest) (*models.InsightCardConfig, error) {
	config, err := s.GetOwned(ctx, userID, configID)
	if err != nil {
		return nil, err
	}
	if config.IsSystem {
		return nil, ErrSystemConfigImmutable
	}

	values := map[string]interface{}{}
	if req.Name != "" {
		values["name"] = req.Name
	}
	if req.TimeRange != "" {
		values["time_range"] = req.TimeRange
	}
	if req.Prompt != "" {
		values["prompt"] = req.Prompt
	}
	if len(values) == 0 {
		return config, nil
	}
	if err := s.configs.Update(ctx, configID, values); err != nil {
		return nil, err
	}
	return s.configs.GetByID(ctx, configID)
}

// Delete 删除自定义配置；系统配置只停用，从不物理删除
func (s *InsightConfigService) Delete(ctx context.Context, userID, configID string) error {
	config, err := s.GetOwned(ctx, userID, configID)
	if err != nil {
		return err
	}
	if config.IsSystem {
		s.logger.Infow("系统配置转为停用", "userID", userID, "configID", configID)
		return s.configs.Update(ctx, configID, map[string]interface{}{"is_enabled": false})
	}
	return s.configs.Delete(ctx, configID)
}

// Reorder 重排自定义配置
// ID列表必须与该用户的全部自定义配置一一对应，任何不匹配都整体拒绝
func (s *InsightConfigService) Reorder(ctx context.Context, userID string, orderedIDs []string) error {
	configs, err := s.configs.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	custom := make(map[string]bool)
	for _, config := range configs {
		if !config.IsSystem {
			custom[config.ID] = true
		}
	}
	if len(orderedIDs) != len(custom) {
		return ErrReorderMismatch
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !custom[id] || seen[id] {
			return ErrReorderMismatch
		}
		seen[id] = true
	}

	return s.runTx(func(tx *gorm.DB) error {
		repo := s.configs.WithTx(tx)
		for idx, id := range orderedIDs {
			values := map[string]interface{}{"sort_order": customSortOrderBase + idx}
			if err := repo.Update(ctx, id, values); err != nil {
				return err
			}
		}
		return nil
	})
}

// Toggle 切换配置启用状态，系统配置与自定义配置都允许
func (s *InsightConfigService) Toggle(ctx context.Context, userID, configID string) (*models.InsightCardConfig, error) {
	config, err := s.GetOwned(ctx, userID, configID)
	if err != nil {
		return nil, err
	}
	if err := s.configs.Update(ctx, configID, map[string]interface{}{"is_enabled": !config.IsEnabled}); err != nil {
		return nil, err
	}
	config.IsEnabled = !config.IsEnabled
	return config, nil
}
