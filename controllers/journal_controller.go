package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/services"
	"github.com/gin-gonic/gin"
)

// JournalController 日记条目接口
type JournalController struct {
	journal *services.JournalService
}

// NewJournalController 创建日记控制器
func NewJournalController(journal *services.JournalService) *JournalController {
	return &JournalController{journal: journal}
}

// entryToResponse 组装条目响应
func entryToResponse(detail models.EntryDetail) models.EntryResponse {
	events := detail.Events()
	if events == nil {
		events = []string{}
	}
	images := make([]models.EntryImageResponse, 0, len(detail.Images))
	for _, img := range detail.Images {
		images = append(images, models.EntryImageResponse{
			ID:           img.ID,
			ImageURL:     img.ImageURL,
			ThumbnailURL: img.ThumbnailURL,
			UploadStatus: img.UploadStatus,
			IsLivePhoto:  img.IsLivePhoto,
			SortOrder:    img.SortOrder,
		})
	}
	tags := make([]models.TagResponse, 0, len(detail.Tags))
	for _, tag := range detail.Tags {
		tags = append(tags, models.TagResponse{
			ID:      tag.ID,
			Name:    tag.Name,
			TagType: tag.TagType,
			Color:   tag.Color,
			Icon:    tag.Icon,
		})
	}
	return models.EntryResponse{
		ID:            detail.ID,
		UserID:        detail.UserID,
		Content:       detail.Content,
		Emotion:       detail.Emotion,
		Status:        detail.Status,
		IsVisible:     detail.IsVisible,
		Events:        events,
		WordCount:     detail.WordCount,
		SourceType:    detail.SourceType,
		AudioDuration: detail.AudioDuration,
		ShareCount:    detail.ShareCount,
		Images:        images,
		Tags:          tags,
		CreatedAt:     detail.CreatedAt,
		UpdatedAt:     detail.UpdatedAt,
	}
}

// CreateEntry 创建条目
func (jc *JournalController) CreateEntry(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	detail, err := jc.journal.CreateEntry(c.Request.Context(), uid, &req)
	if err != nil {
		respondServiceError(c, err, "创建条目失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "创建成功",
		"data":    entryToResponse(*detail),
	})
}

// GetEntries 获取指定日期的条目列表，target_date缺省为今天
func (jc *JournalController) GetEntries(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	day := time.Now()
	if raw := c.Query("target_date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "日期格式应为YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	details, err := jc.journal.ListEntriesByDate(c.Request.Context(), uid, day)
	if err != nil {
		respondServiceError(c, err, "获取条目列表失败")
		return
	}

	data := make([]models.EntryResponse, 0, len(details))
	for _, detail := range details {
		data = append(data, entryToResponse(detail))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    data,
		"total":   len(data),
	})
}

// GetEntryDetail 获取条目详情
func (jc *JournalController) GetEntryDetail(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	detail, err := jc.journal.GetEntryDetail(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "获取条目详情失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    entryToResponse(*detail),
	})
}

// RetryEntry 重试AI分析
func (jc *JournalController) RetryEntry(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	detail, err := jc.journal.RetryEntry(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "重试失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "重试成功",
		"data":    entryToResponse(*detail),
	})
}

// ReplaceEntryTags 整体替换条目标签
func (jc *JournalController) ReplaceEntryTags(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ReplaceTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	detail, err := jc.journal.ReplaceEntryTags(c.Request.Context(), uid, c.Param("id"), req.TagIDs)
	if err != nil {
		respondServiceError(c, err, "更新标签失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "更新成功",
		"data":    entryToResponse(*detail),
	})
}

// GetTags 获取用户可用标签
func (jc *JournalController) GetTags(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	tags, err := jc.journal.ListAvailableTags(c.Request.Context(), uid, isPaidUser(c))
	if err != nil {
		respondServiceError(c, err, "获取标签失败")
		return
	}

	data := make([]models.TagResponse, 0, len(tags))
	for _, tag := range tags {
		data = append(data, models.TagResponse{
			ID:      tag.ID,
			Name:    tag.Name,
			TagType: tag.TagType,
			Color:   tag.Color,
			Icon:    tag.Icon,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    data,
		"total":   len(data),
	})
}

// GetDailyStats 获取时间范围内的每日记录统计
func (jc *JournalController) GetDailyStats(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	start, end, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	stats, err := jc.journal.DailyStats(c.Request.Context(), uid, start, end)
	if err != nil {
		respondServiceError(c, err, "获取统计失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    stats,
		"total":   len(stats),
	})
}

// parseRange 解析range_type查询参数，week为本周，month为本月
func parseRange(c *gin.Context) (time.Time, time.Time, error) {
	now := time.Now()
	switch c.DefaultQuery("range_type", "week") {
	case "week":
		start, end := services.CurrentWeekWindow(now)
		return start, end, nil
	case "month":
		start, end := services.CurrentMonthWindow(now)
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, errors.New("range_type仅支持week/month")
	}
}

// parsePage 解析limit/offset查询参数
func parsePage(c *gin.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
