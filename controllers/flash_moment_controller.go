package controllers

import (
	"net/http"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/services"
	"github.com/XiaoTongYuCode/guan-wo/utils"
	"github.com/gin-gonic/gin"
)

// FlashMomentController 闪光时刻接口
type FlashMomentController struct {
	flash *services.FlashMomentService
}

// NewFlashMomentController 创建闪光时刻控制器
func NewFlashMomentController(flash *services.FlashMomentService) *FlashMomentController {
	return &FlashMomentController{flash: flash}
}

func flashToResponse(detail models.EntryDetail) models.FlashMomentResponse {
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
	return models.FlashMomentResponse{
		ID:             detail.ID,
		UserID:         detail.UserID,
		Content:        detail.Content,
		ContentSummary: utils.TruncateRunes(detail.Content, 50),
		Emotion:        detail.Emotion,
		ShareCount:     detail.ShareCount,
		Images:         images,
		CreatedAt:      detail.CreatedAt,
	}
}

// GetFlashMoments 获取闪光时刻列表
func (fc *FlashMomentController) GetFlashMoments(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, offset := parsePage(c, 20)
	moments, err := fc.flash.ListFlashMoments(c.Request.Context(), uid, limit, offset)
	if err != nil {
		respondServiceError(c, err, "获取闪光时刻失败")
		return
	}

	data := make([]models.FlashMomentResponse, 0, len(moments))
	for _, moment := range moments {
		data = append(data, flashToResponse(moment))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    data,
		"total":   len(data),
	})
}

// GetFlashMomentDetail 获取闪光时刻详情
func (fc *FlashMomentController) GetFlashMomentDetail(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	moment, err := fc.flash.GetFlashMoment(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "获取闪光时刻详情失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    flashToResponse(*moment),
	})
}

// ShareFlashMoment 闪光时刻分享计数
func (fc *FlashMomentController) ShareFlashMoment(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	moment, err := fc.flash.ShareFlashMoment(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "分享失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "分享计数+1",
		"data":    flashToResponse(*moment),
	})
}
