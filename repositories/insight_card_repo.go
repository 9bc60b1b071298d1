package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"gorm.io/gorm"
)

// InsightCardRepository 洞察卡片数据访问接口
type InsightCardRepository interface {
	WithTx(tx *gorm.DB) InsightCardRepository
	Create(ctx context.Context, card *models.InsightCard) error
	GetByID(ctx context.Context, id string) (*models.InsightCard, error)
	Exists(ctx context.Context, userID, cardType string, start, end time.Time, configID string) (bool, error)
	LatestVisible(ctx context.Context, userID, cardType, configID string) (*models.InsightCard, error)
	ListByUser(ctx context.Context, userID, cardType string, includeHidden bool, limit, offset int) ([]models.InsightCard, error)
	MarkViewed(ctx context.Context, id string) error
	SetHidden(ctx context.Context, id string, hidden bool) error
	IncrementShareCount(ctx context.Context, id string) error
}

type insightCardRepository struct {
	db *gorm.DB
}

// NewInsightCardRepository 创建洞察卡片Repository
func NewInsightCardRepository(db *gorm.DB) InsightCardRepository {
	return &insightCardRepository{db: db}
}

func (r *insightCardRepository) WithTx(tx *gorm.DB) InsightCardRepository {
	if tx == nil {
		return r
	}
	return &insightCardRepository{db: tx}
}

func (r *insightCardRepository) Create(ctx context.Context, card *models.InsightCard) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *insightCardRepository) GetByID(ctx context.Context, id string) (*models.InsightCard, error) {
	var card models.InsightCard
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Exists 判断同一用户、类型、数据窗口是否已有卡片；configID非空时限定到配置
func (r *insightCardRepository) Exists(ctx context.Context, userID, cardType string, start, end time.Time, configID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.InsightCard{}).
		Where("user_id = ? AND card_type = ?", userID, cardType).
		Where("data_start_time = ? AND data_end_time = ?", start, end)
	if configID != "" {
		query = query.Where("config_id = ?", configID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestVisible 返回该类型最近一张未隐藏卡片；configID非空时限定到配置
func (r *insightCardRepository) LatestVisible(ctx context.Context, userID, cardType, configID string) (*models.InsightCard, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND card_type = ? AND is_hidden = ?", userID, cardType, false)
	if configID != "" {
		query = query.Where("config_id = ?", configID)
	}

	var card models.InsightCard
	err := query.Order("generated_at DESC").First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *insightCardRepository) ListByUser(ctx context.Context, userID, cardType string, includeHidden bool, limit, offset int) ([]models.InsightCard, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeHidden {
		query = query.Where("is_hidden = ?", false)
	}
	if cardType != "" {
		query = query.Where("card_type = ?", cardType)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var cards []models.InsightCard
	err := query.Order("generated_at DESC").Find(&cards).Error
	return cards, err
}

// MarkViewed 标记卡片已读并累加阅读次数
func (r *insightCardRepository) MarkViewed(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.InsightCard{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_viewed":  true,
			"view_count": gorm.Expr("view_count + ?", 1),
		}).Error
}

func (r *insightCardRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	return r.db.WithContext(ctx).Model(&models.InsightCard{}).
		Where("id = ?", id).
		Update("is_hidden", hidden).Error
}

func (r *insightCardRepository) IncrementShareCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.InsightCard{}).
		Where("id = ?", id).
		Update("share_count", gorm.Expr("share_count + ?", 1)).Error
}
