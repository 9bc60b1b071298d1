package services

import (
	"context"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/repositories"
	"go.uber.org/zap"
)

// FlashMomentService 闪光时刻服务
// 闪光时刻是分析完成且情绪为positive的可见条目，不单独存储
type FlashMomentService struct {
	entries   repositories.EntryRepository
	images    repositories.EntryImageRepository
	entryTags repositories.EntryTagRepository
	logger    *zap.SugaredLogger
}

// NewFlashMomentService 创建闪光时刻服务
func NewFlashMomentService(
	entries repositories.EntryRepository,
	images repositories.EntryImageRepository,
	entryTags repositories.EntryTagRepository,
	logger *zap.SugaredLogger,
) *FlashMomentService {
	return &FlashMomentService{
		entries:   entries,
		images:    images,
		entryTags: entryTags,
		logger:    logger,
	}
}

// isFlashMoment 判断条目是否满足闪光时刻条件
func isFlashMoment(entry *models.Entry) bool {
	return entry.IsVisible &&
		entry.Status == models.EntryStatusSuccess &&
		entry.Emotion == string(models.EmotionPositive)
}

// ListFlashMoments 获取闪光时刻列表，按创建时间倒序
func (s *FlashMomentService) ListFlashMoments(ctx context.Context, userID string, limit, offset int) ([]models.EntryDetail, error) {
	entries, err := s.entries.ListPositive(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.EntryDetail{}, nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	imagesByEntry, err := s.images.ListByEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]models.EntryDetail, 0, len(entries))
	for _, entry := range entries {
		details = append(details, models.EntryDetail{
			Entry:  entry,
			Images: imagesByEntry[entry.ID],
		})
	}
	return details, nil
}

// GetFlashMoment 获取单个闪光时刻详情
func (s *FlashMomentService) GetFlashMoment(ctx context.Context, userID, entryID string) (*models.EntryDetail, error) {
	entry, err := s.flashMomentEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	return s.loadDetail(ctx, entry)
}

// ShareFlashMoment 累加闪光时刻分享计数
func (s *FlashMomentService) ShareFlashMoment(ctx context.Context, userID, entryID string) (*models.EntryDetail, error) {
	entry, err := s.flashMomentEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.entries.IncrementShareCount(ctx, entryID); err != nil {
		return nil, err
	}
	entry.ShareCount++
	s.logger.Infow("闪光时刻分享计数+1", "entryID", entryID, "userID", userID)
	return s.loadDetail(ctx, entry)
}

// flashMomentEntry 取归属该用户的闪光时刻，不满足条件统一返回ErrNotFound
func (s *FlashMomentService) flashMomentEntry(ctx context.Context, userID, entryID string) (*models.Entry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.UserID != userID || !isFlashMoment(entry) {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (s *FlashMomentService) loadDetail(ctx context.Context, entry *models.Entry) (*models.EntryDetail, error) {
	images, err := s.images.ListByEntry(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	tags, err := s.entryTags.ListTagsByEntry(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	return &models.EntryDetail{Entry: *entry, Images: images, Tags: tags}, nil
}
