package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/services"
	"github.com/gin-gonic/gin"
)

// InsightController 洞察卡片接口
type InsightController struct {
	insight *services.InsightService
}

// NewInsightController 创建洞察控制器
func NewInsightController(insight *services.InsightService) *InsightController {
	return &InsightController{insight: insight}
}

// cardToResponse 组装卡片响应
func cardToResponse(card models.InsightCard) models.InsightCardResponse {
	return models.InsightCardResponse{
		ID:            card.ID,
		UserID:        card.UserID,
		CardType:      card.CardType,
		ConfigID:      card.ConfigID,
		Content:       card.Content(),
		DataStartTime: card.DataStartTime,
		DataEndTime:   card.DataEndTime,
		IsViewed:      card.IsViewed,
		IsHidden:      card.IsHidden,
		ViewCount:     card.ViewCount,
		ShareCount:    card.ShareCount,
		GeneratedAt:   card.GeneratedAt,
		CreatedAt:     card.CreatedAt,
		UpdatedAt:     card.UpdatedAt,
	}
}

// GetCards 获取卡片列表
func (ic *InsightController) GetCards(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	cardType := c.Query("card_type")
	if cardType != "" && !models.ValidCardType(cardType) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "无效的卡片类型"})
		return
	}
	includeHidden := c.Query("is_hidden") == "true"
	limit, offset := parsePage(c, 20)

	cards, err := ic.insight.ListCards(c.Request.Context(), uid, cardType, includeHidden, limit, offset)
	if err != nil {
		respondServiceError(c, err, "获取卡片列表失败")
		return
	}

	data := make([]models.InsightCardResponse, 0, len(cards))
	for _, card := range cards {
		data = append(data, cardToResponse(card))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    data,
		"total":   len(data),
	})
}

// GetCardDetail 获取卡片详情并标记已查看
func (ic *InsightController) GetCardDetail(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.GetCard(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "获取卡片详情失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    cardToResponse(*card),
	})
}

// GenerateDaily 生成昨日的每日寄语
func (ic *InsightController) GenerateDaily(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.GenerateDailyAffirmation(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err, "生成每日寄语失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "生成成功",
		"data":    cardToResponse(*card),
	})
}

// GenerateWeeklyEmotion 生成上周的情绪地图
func (ic *InsightController) GenerateWeeklyEmotion(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.GenerateWeeklyEmotionMap(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientData) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "数据不足，无法生成情绪地图（需要至少3条记录）",
			})
			return
		}
		respondServiceError(c, err, "生成情绪地图失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "生成成功",
		"data":    cardToResponse(*card),
	})
}

// GenerateWeeklyGratitude 生成上周的感恩清单
func (ic *InsightController) GenerateWeeklyGratitude(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.GenerateWeeklyGratitudeList(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, services.ErrInsufficientData) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "数据不足，无法生成感恩清单（需要至少1条积极事件）",
			})
			return
		}
		respondServiceError(c, err, "生成感恩清单失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "生成成功",
		"data":    cardToResponse(*card),
	})
}

// GenerateCustom 按自定义配置生成卡片
func (ic *InsightController) GenerateCustom(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.GenerateCustomCard(c.Request.Context(), uid, c.Param("config_id"))
	if err != nil {
		respondServiceError(c, err, "生成自定义卡片失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "生成成功",
		"data":    cardToResponse(*card),
	})
}

// HideCard 隐藏卡片
func (ic *InsightController) HideCard(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.HideCard(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "隐藏卡片失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "隐藏成功",
		"data":    cardToResponse(*card),
	})
}

// ShowCard 恢复展示卡片
func (ic *InsightController) ShowCard(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.ShowCard(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "恢复卡片失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "恢复成功",
		"data":    cardToResponse(*card),
	})
}

// ShareCard 卡片分享计数
func (ic *InsightController) ShareCard(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	card, err := ic.insight.ShareCard(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "分享失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "分享计数+1",
		"data":    cardToResponse(*card),
	})
}

// RunSweep 内部接口，同步触发一次全量卡片生成
func (ic *InsightController) RunSweep(c *gin.Context) {
	start := time.Now()
	ic.insight.RunDailySweep(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "生成任务执行完成",
		"data":    gin.H{"elapsed_ms": time.Since(start).Milliseconds()},
	})
}
