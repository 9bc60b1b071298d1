package repositories

import (
	"context"
	"errors"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"gorm.io/gorm"
)

// TagRepository 标签数据访问接口
type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id string) (*models.Tag, error)
	GetSystemByName(ctx context.Context, name string) (*models.Tag, error)
	ListAvailable(ctx context.Context, userID string) ([]models.Tag, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository 创建标签Repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	if tx == nil {
		return r
	}
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetSystemByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).
		Where("name = ? AND tag_type = ?", name, models.TagTypeSystem).
		First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListAvailable 返回对该用户可用的标签：启用的系统标签加上用户自己的自定义标签
func (r *tagRepository) ListAvailable(ctx context.Context, userID string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Where("is_enabled = ?", true).
		Where(r.db.Where("tag_type = ?", models.TagTypeSystem).
			Or("tag_type = ? AND user_id = ?", models.TagTypeCustom, userID)).
		Order("created_at ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	var tags []models.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}
