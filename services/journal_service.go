package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/repositories"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FreeTagLimit 免费档位可见的系统标签数
const FreeTagLimit = 3

// JournalService 日记服务，负责条目生命周期：提交、审核、AI分析、重试与标签
type JournalService struct {
	runTx       TxRunner
	entries     repositories.EntryRepository
	images      repositories.EntryImageRepository
	tags        repositories.TagRepository
	entryTags   repositories.EntryTagRepository
	gate        ContentSafetyGate
	transcriber Transcriber
	analyzer    EntryAnalyzer
	dispatcher  Dispatcher
	logger      *zap.SugaredLogger
}

// NewJournalService 创建日记服务
func NewJournalService(
	runTx TxRunner,
	entries repositories.EntryRepository,
	images repositories.EntryImageRepository,
	tags repositories.TagRepository,
	entryTags repositories.EntryTagRepository,
	gate ContentSafetyGate,
	transcriber Transcriber,
	analyzer EntryAnalyzer,
	dispatcher Dispatcher,
	logger *zap.SugaredLogger,
) *JournalService {
	return &JournalService{
		runTx:       runTx,
		entries:     entries,
		images:      images,
		tags:        tags,
		entryTags:   entryTags,
		gate:        gate,
		transcriber: transcriber,
		analyzer:    analyzer,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// CreateEntry 创建条目
// 流程：内容解析（语音转写兜底）-> 内容安全检查 -> 事务落库 -> 派发后台AI分析。
// 审核未通过的条目以violated状态落库且不可见，不参与后续分析。
func (s *JournalService) CreateEntry(ctx context.Context, userID string, req *models.CreateEntryRequest) (*models.EntryDetail, error) {
	content := s.resolveContent(ctx, req)
	if utf8.RuneCountInString(content) > models.MaxEntryContentLen {
		return nil, ErrEntryTooLong
	}

	entry := &models.Entry{
		UserID:        userID,
		Content:       content,
		Status:        models.EntryStatusSending,
		IsVisible:     true,
		WordCount:     utf8.RuneCountInString(content),
		SourceType:    req.SourceType,
		AudioDuration: req.AudioDuration,
	}
	if !s.checkContentSafety(ctx, content, req.Images) {
		entry.Status = models.EntryStatusViolated
		entry.IsVisible = false
	}

	images := buildEntryImages(req.Images)
	tagIDs, err := s.resolveTagIDs(ctx, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}

	err = s.runTx(func(tx *gorm.DB) error {
		if err := s.entries.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}
		for i := range images {
			images[i].EntryID = entry.ID
		}
		if err := s.images.WithTx(tx).CreateBatch(ctx, images); err != nil {
			return err
		}
		entryTags := s.entryTags.WithTx(tx)
		for _, tagID := range tagIDs {
			if err := entryTags.AddTagToEntry(ctx, entry.ID, tagID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("创建条目失败: %w", err)
	}

	s.logger.Infow("创建条目成功",
		"entryID", entry.ID,
		"userID", userID,
		"wordCount", entry.WordCount,
		"status", entry.Status,
	)

	if entry.Status == models.EntryStatusSending {
		if !s.dispatcher.Dispatch(entry.ID, content) {
			// 队列已满，条目置为failed，用户可稍后重试
			if err := s.entries.UpdateStatus(ctx, entry.ID, models.EntryStatusFailed); err != nil {
				s.logger.Errorw("更新条目状态失败", "entryID", entry.ID, "error", err)
			} else {
				entry.Status = models.EntryStatusFailed
			}
		}
	}

	return s.loadEntryDetail(ctx, entry)
}

// resolveContent 解析条目文本：显式文本 > 客户端转写 > 服务端ASR
// ASR失败只降级为空文本，不阻断创建
func (s *JournalService) resolveContent(ctx context.Context, req *models.CreateEntryRequest) string {
	content := strings.TrimSpace(req.Text)
	if req.SourceType != models.SourceTypeVoice {
		return content
	}

	if content == "" {
		content = strings.TrimSpace(req.TranscriptionText)
	}
	if content == "" && req.AudioURL != "" {
		text, duration, err := s.transcriber.Transcribe(ctx, req.AudioURL)
		if err != nil {
			s.logger.Warnw("语音转写失败，使用空文本继续", "audioURL", req.AudioURL, "error", err)
			return ""
		}
		content = strings.TrimSpace(text)
		if req.AudioDuration == 0 && duration > 0 {
			req.AudioDuration = duration
		}
	}
	return content
}

// checkContentSafety 检查文本与全部图片，任一不安全即返回false
// 网关不可用时放行并记录，避免审核故障阻断写入
func (s *JournalService) checkContentSafety(ctx context.Context, content string, images []models.EntryImageRequest) bool {
	if content != "" {
		result, err := s.gate.CheckText(ctx, content)
		if err != nil {
			s.logger.Warnw("内容安全检查失败，默认放行", "error", err)
		} else if !result.IsSafe {
			s.logger.Infow("文本内容审核未通过", "label", result.Label)
			return false
		}
	}
	for _, img := range images {
		if img.ImageURL == "" {
			continue
		}
		result, err := s.gate.CheckImage(ctx, img.ImageURL)
		if err != nil {
			s.logger.Warnw("内容安全检查失败，默认放行", "imageURL", img.ImageURL, "error", err)
			continue
		}
		if !result.IsSafe {
			s.logger.Infow("图片内容审核未通过", "imageURL", img.ImageURL, "label", result.Label)
			return false
		}
	}
	return true
}

// buildEntryImages 组装图片记录，sort_order缺省为提交顺序
func buildEntryImages(reqs []models.EntryImageRequest) []models.EntryImage {
	images := make([]models.EntryImage, 0, len(reqs))
	for idx, req := range reqs {
		status := req.UploadStatus
		if status == "" {
			status = models.UploadStatusSuccess
		}
		sortOrder := req.SortOrder
		if sortOrder == 0 {
			sortOrder = idx
		}
		images = append(images, models.EntryImage{
			ImageURL:     req.ImageURL,
			ThumbnailURL: req.ThumbnailURL,
			UploadStatus: status,
			IsLivePhoto:  req.IsLivePhoto,
			SortOrder:    sortOrder,
		})
	}
	return images
}

// resolveTagIDs 过滤标签ID到该用户可用的集合，不可用的静默丢弃
func (s *JournalService) resolveTagIDs(ctx context.Context, userID string, tagIDs []string) ([]string, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	available, err := s.tags.ListAvailable(ctx, userID)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]bool, len(available))
	for _, tag := range available {
		allowed[tag.ID] = true
	}

	resolved := make([]string, 0, len(tagIDs))
	seen := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		if allowed[id] && !seen[id] {
			seen[id] = true
			resolved = append(resolved, id)
		}
	}
	return resolved, nil
}

// AnalyzeEntry 后台分析条目，写回情绪、事件与自动标签
// 作为工作池的处理函数运行，所有失败都落在条目状态上，不向上抛错
func (s *JournalService) AnalyzeEntry(ctx context.Context, entryID, content string) {
	s.logger.Infow("开始AI分析", "entryID", entryID)

	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		s.logger.Errorw("分析前加载条目失败", "entryID", entryID, "error", err)
		return
	}
	if entry == nil {
		s.logger.Warnw("待分析条目不存在", "entryID", entryID)
		return
	}
	if !entry.Status.CanTransitionTo(models.EntryStatusSuccess) {
		s.logger.Warnw("条目状态不允许写入分析结果", "entryID", entryID, "status", entry.Status)
		return
	}

	result, err := s.analyzer.AnalyzeEntry(ctx, content)
	if err != nil {
		s.logger.Errorw("AI分析失败", "entryID", entryID, "error", err)
		if err := s.entries.UpdateStatus(ctx, entryID, models.EntryStatusFailed); err != nil {
			s.logger.Errorw("更新条目状态失败", "entryID", entryID, "error", err)
		}
		return
	}

	events := result.Events
	if len(events) > models.MaxEntryEvents {
		events = events[:models.MaxEntryEvents]
	}
	eventsJSON, err := models.MarshalEvents(events)
	if err != nil {
		s.logger.Errorw("编码事件列表失败", "entryID", entryID, "error", err)
		eventsJSON, _ = models.MarshalEvents(nil)
	}
	emotion := models.NormalizeEmotion(result.Emotion)

	if err := s.entries.UpdateAnalysis(ctx, entryID, models.EntryStatusSuccess, string(emotion), eventsJSON); err != nil {
		s.logger.Errorw("写入分析结果失败", "entryID", entryID, "error", err)
		return
	}

	s.attachAutoTags(ctx, entryID, NormalizeTagNames(result.Tags))

	s.logger.Infow("AI分析完成", "entryID", entryID, "emotion", emotion)
}

// attachAutoTags 关联分析得出的系统标签，不覆盖用户手动选择
func (s *JournalService) attachAutoTags(ctx context.Context, entryID string, names []string) {
	for _, name := range names {
		tag, err := s.tags.GetSystemByName(ctx, name)
		if err != nil {
			s.logger.Errorw("查询系统标签失败", "name", name, "error", err)
			continue
		}
		if tag == nil {
			s.logger.Infow("系统标签不存在，自动创建", "name", name)
			tag = &models.Tag{Name: name, TagType: models.TagTypeSystem, IsEnabled: true}
			if err := s.tags.Create(ctx, tag); err != nil {
				s.logger.Errorw("创建系统标签失败", "name", name, "error", err)
				continue
			}
		}
		if err := s.entryTags.AddTagToEntry(ctx, entryID, tag.ID); err != nil {
			s.logger.Errorw("关联自动标签失败", "entryID", entryID, "tagID", tag.ID, "error", err)
		}
	}
}

// RetryEntry 重试AI分析
// 只有failed状态允许重试；其余状态原样返回条目，不视为错误
func (s *JournalService) RetryEntry(ctx context.Context, userID, entryID string) (*models.EntryDetail, error) {
	entry, err := s.visibleOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != models.EntryStatusFailed {
		s.logger.Warnw("条目状态不是failed，跳过重试", "entryID", entryID, "status", entry.Status)
		return s.loadEntryDetail(ctx, entry)
	}

	if err := s.entries.UpdateStatus(ctx, entryID, models.EntryStatusSending); err != nil {
		return nil, err
	}
	entry.Status = models.EntryStatusSending

	if !s.dispatcher.Dispatch(entry.ID, entry.Content) {
		if err := s.entries.UpdateStatus(ctx, entryID, models.EntryStatusFailed); err != nil {
			s.logger.Errorw("更新条目状态失败", "entryID", entryID, "error", err)
		} else {
			entry.Status = models.EntryStatusFailed
		}
	}
	return s.loadEntryDetail(ctx, entry)
}

// visibleOwnedEntry 取归属该用户且可见的条目，否则统一返回ErrNotFound
func (s *JournalService) visibleOwnedEntry(ctx context.Context, userID, entryID string) (*models.Entry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.UserID != userID || !entry.IsVisible {
		return nil, ErrNotFound
	}
	return entry, nil
}

// GetEntryDetail 获取条目详情
func (s *JournalService) GetEntryDetail(ctx context.Context, userID, entryID string) (*models.EntryDetail, error) {
	entry, err := s.visibleOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	return s.loadEntryDetail(ctx, entry)
}

// ListEntriesByDate 获取指定自然日的条目列表
func (s *JournalService) ListEntriesByDate(ctx context.Context, userID string, day time.Time) ([]models.EntryDetail, error) {
	start, end := DayWindow(day)
	entries, err := s.entries.ListInRange(ctx, userID, start, end, "", 0, 0)
	if err != nil {
		return nil, err
	}
	return s.LoadEntryDetails(ctx, entries)
}

// ListEntriesByRange 获取时间范围内的条目列表，可按情绪过滤
func (s *JournalService) ListEntriesByRange(ctx context.Context, userID string, start, end time.Time, emotion string, limit, offset int) ([]models.EntryDetail, error) {
	entries, err := s.entries.ListInRange(ctx, userID, start, end, emotion, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.LoadEntryDetails(ctx, entries)
}

// ReplaceEntryTags 整体替换条目标签，不可用的标签ID被静默丢弃
func (s *JournalService) ReplaceEntryTags(ctx context.Context, userID, entryID string, tagIDs []string) (*models.EntryDetail, error) {
	entry, err := s.visibleOwnedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolveTagIDs(ctx, userID, tagIDs)
	if err != nil {
		return nil, err
	}
	if err := s.entryTags.ReplaceEntryTags(ctx, entryID, resolved); err != nil {
		return nil, err
	}
	return s.loadEntryDetail(ctx, entry)
}

// ListAvailableTags 获取用户可用标签，免费档位仅开放前几个系统标签
func (s *JournalService) ListAvailableTags(ctx context.Context, userID string, isPaid bool) ([]models.Tag, error) {
	tags, err := s.tags.ListAvailable(ctx, userID)
	if err != nil {
		return nil, err
	}
	if isPaid {
		return tags, nil
	}

	system := make([]models.Tag, 0, FreeTagLimit)
	for _, tag := range tags {
		if tag.TagType != models.TagTypeSystem {
			continue
		}
		system = append(system, tag)
		if len(system) == FreeTagLimit {
			break
		}
	}
	return system, nil
}

// DailyStats 获取时间范围内的每日记录统计
func (s *JournalService) DailyStats(ctx context.Context, userID string, start, end time.Time) ([]models.DailyEntryStat, error) {
	return s.entries.DailyStats(ctx, userID, start, end)
}

func (s *JournalService) loadEntryDetail(ctx context.Context, entry *models.Entry) (*models.EntryDetail, error) {
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

// LoadEntryDetails 批量加载条目的图片与标签
func (s *JournalService) LoadEntryDetails(ctx context.Context, entries []models.Entry) ([]models.EntryDetail, error) {
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
	tagsByEntry, err := s.entryTags.ListTagsByEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]models.EntryDetail, 0, len(entries))
	for _, entry := range entries {
		details = append(details, models.EntryDetail{
			Entry:  entry,
			Images: imagesByEntry[entry.ID],
			Tags:   tagsByEntry[entry.ID],
		})
	}
	return details, nil
}
