package repositories

import (
	"context"
	"errors"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"gorm.io/gorm"
)

// InsightConfigRepository 洞察配置数据访问接口
type InsightConfigRepository interface {
	WithTx(tx *gorm.DB) InsightConfigRepository
	Create(ctx context.Context, config *models.InsightCardConfig) error
	GetByID(ctx context.Context, id string) (*models.InsightCardConfig, error)
	GetSystemByType(ctx context.Context, userID, cardType string) (*models.InsightCardConfig, error)
	ListByUser(ctx context.Context, userID string) ([]models.InsightCardConfig, error)
	CountCustom(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, id string, values map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type insightConfigRepository struct {
	db *gorm.DB
}

// NewInsightConfigRepository 创建洞察配置Repository
func NewInsightConfigRepository(db *gorm.DB) InsightConfigRepository {
	return &insightConfigRepository{db: db}
}

func (r *insightConfigRepository) WithTx(tx *gorm.DB) InsightConfigRepository {
	if tx == nil {
		return r
	}
	return &insightConfigRepository{db: tx}
}

func (r *insightConfigRepository) Create(ctx context.Context, config *models.InsightCardConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

func (r *insightConfigRepository) GetByID(ctx context.Context, id string) (*models.InsightCardConfig, error) {
	var config models.InsightCardConfig
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *insightConfigRepository) GetSystemByType(ctx context.Context, userID, cardType string) (*models.InsightCardConfig, error) {
	var config models.InsightCardConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND card_type = ? AND is_system = ?", userID, cardType, true).
		First(&config).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *insightConfigRepository) ListByUser(ctx context.Context, userID string) ([]models.InsightCardConfig, error) {
	var configs []models.InsightCardConfig
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("sort_order ASC").
		Find(&configs).Error
	return configs, err
}

func (r *insightConfigRepository) CountCustom(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.InsightCardConfig{}).
		Where("user_id = ? AND is_system = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *insightConfigRepository) Update(ctx context.Context, id string, values map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.InsightCardConfig{}).
		Where("id = ?", id).
		Updates(values).Error
}

func (r *insightConfigRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.InsightCardConfig{}).Error
}
