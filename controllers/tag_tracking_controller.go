package controllers

import (
	"net/http"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/services"
	"github.com/gin-gonic/gin"
)

// TagTrackingController 标签追踪与图表接口
type TagTrackingController struct {
	tracking *services.TagTrackingService
	journal  *services.JournalService
}

// NewTagTrackingController 创建标签追踪控制器
func NewTagTrackingController(tracking *services.TagTrackingService, journal *services.JournalService) *TagTrackingController {
	return &TagTrackingController{tracking: tracking, journal: journal}
}

// GetOverview 获取追踪总览：记录热力图、标签气泡图、数据健康度
func (tc *TagTrackingController) GetOverview(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	start, end, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	heatmap, err := tc.tracking.ActivityHeatmap(ctx, uid, start, end)
	if err != nil {
		respondServiceError(c, err, "获取记录热力图失败")
		return
	}
	bubbles, err := tc.tracking.TagBubbleChart(ctx, uid, start, end, isPaidUser(c))
	if err != nil {
		respondServiceError(c, err, "获取标签气泡图失败")
		return
	}
	health, err := tc.tracking.DataHealth(ctx, uid, start, end)
	if err != nil {
		respondServiceError(c, err, "获取数据健康度失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data": gin.H{
			"heatmap": heatmap,
			"bubbles": bubbles,
			"health":  health,
		},
	})
}

// GetTagTracking 获取单个标签的情绪分布与情绪曲线
func (tc *TagTrackingController) GetTagTracking(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	start, end, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	tagID := c.Param("id")

	ctx := c.Request.Context()
	distribution, err := tc.tracking.EmotionDistributionByTag(ctx, uid, tagID, start, end)
	if err != nil {
		respondServiceError(c, err, "获取标签情绪分布失败")
		return
	}
	curve, err := tc.tracking.EmotionTrendByTag(ctx, uid, tagID, start, end)
	if err != nil {
		respondServiceError(c, err, "获取标签情绪曲线失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data": gin.H{
			"emotion_distribution": distribution,
			"emotion_curve":        curve,
		},
	})
}

// GetTagEntries 按标签和情绪下钻条目明细
func (tc *TagTrackingController) GetTagEntries(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	start, end, err := parseRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	emotion := c.Query("emotion")
	limit, offset := parsePage(c, 20)

	ctx := c.Request.Context()
	entries, err := tc.tracking.EntriesByTagAndEmotion(ctx, uid, c.Param("id"), start, end, emotion, limit, offset)
	if err != nil {
		respondServiceError(c, err, "获取标签条目失败")
		return
	}
	details, err := tc.journal.LoadEntryDetails(ctx, entries)
	if err != nil {
		respondServiceError(c, err, "获取标签条目失败")
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
