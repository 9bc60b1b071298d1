package repositories

import (
	"context"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"gorm.io/gorm"
)

// EntryImageRepository 条目图片数据访问接口
type EntryImageRepository interface {
	WithTx(tx *gorm.DB) EntryImageRepository
	CreateBatch(ctx context.Context, images []models.EntryImage) error
	ListByEntry(ctx context.Context, entryID string) ([]models.EntryImage, error)
	ListByEntries(ctx context.Context, entryIDs []string) (map[string][]models.EntryImage, error)
	UpdateUploadStatus(ctx context.Context, id, status string) error
	DeleteByEntry(ctx context.Context, entryID string) error
}

type entryImageRepository struct {
	db *gorm.DB
}

// NewEntryImageRepository 创建条目图片Repository
func NewEntryImageRepository(db *gorm.DB) EntryImageRepository {
	return &entryImageRepository{db: db}
}

func (r *entryImageRepository) WithTx(tx *gorm.DB) EntryImageRepository {
	if tx == nil {
		return r
	}
	return &entryImageRepository{db: tx}
}

func (r *entryImageRepository) CreateBatch(ctx context.Context, images []models.EntryImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *entryImageRepository) ListByEntry(ctx context.Context, entryID string) ([]models.EntryImage, error) {
	var images []models.EntryImage
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("sort_order ASC").
		Find(&images).Error
	return images, err
}

func (r *entryImageRepository) ListByEntries(ctx context.Context, entryIDs []string) (map[string][]models.EntryImage, error) {
	result := make(map[string][]models.EntryImage)
	if len(entryIDs) == 0 {
		return result, nil
	}

	var images []models.EntryImage
	err := r.db.WithContext(ctx).
		Where("entry_id IN ?", entryIDs).
		Order("sort_order ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		result[img.EntryID] = append(result[img.EntryID], img)
	}
	return result, nil
}

func (r *entryImageRepository) UpdateUploadStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&models.EntryImage{}).
		Where("id = ?", id).
		Update("upload_status", status).Error
}

func (r *entryImageRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	return r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Delete(&models.EntryImage{}).Error
}
