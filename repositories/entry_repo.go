package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"gorm.io/gorm"
)

// EntryRepository 条目数据访问接口
// 除GetByID外，所有读方法只返回is_visible=true的条目
type EntryRepository interface {
	WithTx(tx *gorm.DB) EntryRepository
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	UpdateStatus(ctx context.Context, id string, status models.EntryStatus) error
	UpdateAnalysis(ctx context.Context, id string, status models.EntryStatus, emotion, eventsJSON string) error
	IncrementShareCount(ctx context.Context, id string) error
	ListInRange(ctx context.Context, userID string, start, end time.Time, emotion string, limit, offset int) ([]models.Entry, error)
	ListAnalyzedInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Entry, error)
	ListPositive(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error)
	DailyStats(ctx context.Context, userID string, start, end time.Time) ([]models.DailyEntryStat, error)
	DistinctUserIDs(ctx context.Context, start, end time.Time) ([]string, error)
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository 创建条目Repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) WithTx(tx *gorm.DB) EntryRepository {
	if tx == nil {
		return r
	}
	return &entryRepository{db: tx}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *entryRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *entryRepository) UpdateStatus(ctx context.Context, id string, status models.EntryStatus) error {
	return r.db.WithContext(ctx).Model(&models.Entry{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *entryRepository) UpdateAnalysis(ctx context.Context, id string, status models.EntryStatus, emotion, eventsJSON string) error {
	return r.db.WithContext(ctx).Model(&models.Entry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"emotion":     emotion,
			"events_json": eventsJSON,
		}).Error
}

func (r *entryRepository) IncrementShareCount(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&models.Entry{}).
		Where("id = ?", id).
		Update("share_count", gorm.Expr("share_count + ?", 1)).Error
}

func (r *entryRepository) ListInRange(ctx context.Context, userID string, start, end time.Time, emotion string, limit, offset int) ([]models.Entry, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND is_visible = ?", userID, true).
		Where("created_at BETWEEN ? AND ?", start, end)
	if emotion != "" {
		query = query.Where("emotion = ?", emotion)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var entries []models.Entry
	err := query.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *entryRepository) ListAnalyzedInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_visible = ? AND status = ?", userID, true, models.EntryStatusSuccess).
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *entryRepository) ListPositive(ctx context.Context, userID string, limit, offset int) ([]models.Entry, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND is_visible = ? AND status = ? AND emotion = ?",
			userID, true, models.EntryStatusSuccess, string(models.EmotionPositive))
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var entries []models.Entry
	err := query.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *entryRepository) DailyStats(ctx context.Context, userID string, start, end time.Time) ([]models.DailyEntryStat, error) {
	var stats []models.DailyEntryStat
	err := r.db.WithContext(ctx).Model(&models.Entry{}).
		Select("DATE_FORMAT(created_at, '%Y-%m-%d') AS date, COUNT(*) AS count, COALESCE(SUM(word_count), 0) AS word_count").
		Where("user_id = ? AND is_visible = ?", userID, true).
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("date").
		Order("date ASC").
		Scan(&stats).Error
	return stats, err
}

func (r *entryRepository) DistinctUserIDs(ctx context.Context, start, end time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Entry{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}
