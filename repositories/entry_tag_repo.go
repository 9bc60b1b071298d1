package repositories

import (
	"context"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"gorm.io/gorm"
)

// EntryTagRepository 条目标签关联数据访问接口
type EntryTagRepository interface {
	WithTx(tx *gorm.DB) EntryTagRepository
	AddTagToEntry(ctx context.Context, entryID, tagID string) error
	ReplaceEntryTags(ctx context.Context, entryID string, tagIDs []string) error
	ListTagsByEntry(ctx context.Context, entryID string) ([]models.Tag, error)
	ListTagsByEntries(ctx context.Context, entryIDs []string) (map[string][]models.Tag, error)
	ListEntryIDsByTag(ctx context.Context, tagID string) ([]string, error)
	CountByTag(ctx context.Context, entryIDs []string) ([]models.TagBubble, error)
}

type entryTagRepository struct {
	db *gorm.DB
}

// NewEntryTagRepository 创建条目标签关联Repository
func NewEntryTagRepository(db *gorm.DB) EntryTagRepository {
	return &entryTagRepository{db: db}
}

func (r *entryTagRepository) WithTx(tx *gorm.DB) EntryTagRepository {
	if tx == nil {
		return r
	}
	return &entryTagRepository{db: tx}
}

// AddTagToEntry 为条目添加标签，已存在的关联直接返回
func (r *entryTagRepository) AddTagToEntry(ctx context.Context, entryID, tagID string) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EntryTag{}).
		Where("entry_id = ? AND tag_id = ?", entryID, tagID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	link := models.EntryTag{EntryID: entryID, TagID: tagID}
	return r.db.WithContext(ctx).Create(&link).Error
}

// ReplaceEntryTags 整体替换条目标签，先清空再写入
func (r *entryTagRepository) ReplaceEntryTags(ctx context.Context, entryID string, tagIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", entryID).Delete(&models.EntryTag{}).Error; err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			link := models.EntryTag{EntryID: entryID, TagID: tagID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *entryTagRepository) ListTagsByEntry(ctx context.Context, entryID string) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN entry_tags ON entry_tags.tag_id = tags.id").
		Where("entry_tags.entry_id = ?", entryID).
		Find(&tags).Error
	return tags, err
}

type entryTagRow struct {
	EntryID     string
	TagID       string
	Name        string
	TagType     string
	Color       string
	Icon        string
	Description string
	IsEnabled   bool
}

func (r *entryTagRepository) ListTagsByEntries(ctx context.Context, entryIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag)
	if len(entryIDs) == 0 {
		return result, nil
	}

	var rows []entryTagRow
	err := r.db.WithContext(ctx).Table("tags").
		Select("entry_tags.entry_id AS entry_id, tags.id AS tag_id, tags.name, tags.tag_type, tags.color, tags.icon, tags.description, tags.is_enabled").
		Joins("JOIN entry_tags ON entry_tags.tag_id = tags.id").
		Where("entry_tags.entry_id IN ?", entryIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.EntryID] = append(result[row.EntryID], models.Tag{
			ID:          row.TagID,
			Name:        row.Name,
			TagType:     row.TagType,
			Color:       row.Color,
			Icon:        row.Icon,
			Description: row.Description,
			IsEnabled:   row.IsEnabled,
		})
	}
	return result, nil
}

func (r *entryTagRepository) ListEntryIDsByTag(ctx context.Context, tagID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.EntryTag{}).
		Where("tag_id = ?", tagID).
		Pluck("entry_id", &ids).Error
	return ids, err
}

// CountByTag 统计指定条目集合内各标签的关联次数，气泡图数据源
func (r *entryTagRepository) CountByTag(ctx context.Context, entryIDs []string) ([]models.TagBubble, error) {
	if len(entryIDs) == 0 {
		return []models.TagBubble{}, nil
	}

	var bubbles []models.TagBubble
	err := r.db.WithContext(ctx).Table("tags").
		Select("tags.id AS tag_id, tags.name AS tag_name, tags.color AS color, COUNT(entry_tags.id) AS event_count").
		Joins("JOIN entry_tags ON entry_tags.tag_id = tags.id").
		Where("entry_tags.entry_id IN ?", entryIDs).
		Group("tags.id, tags.name, tags.color").
		Order("event_count DESC").
		Scan(&bubbles).Error
	return bubbles, err
}
