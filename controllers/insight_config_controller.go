package controllers

import (
	"net/http"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/services"
	"github.com/gin-gonic/gin"
)

// InsightConfigController 洞察配置接口
type InsightConfigController struct {
	configs *services.InsightConfigService
}

// NewInsightConfigController 创建洞察配置控制器
func NewInsightConfigController(configs *services.InsightConfigService) *InsightConfigController {
	return &InsightConfigController{configs: configs}
}

func configToResponse(config models.InsightCardConfig) models.InsightCardConfigResponse {
	return models.InsightCardConfigResponse{
		ID:        config.ID,
		UserID:    config.UserID,
		Name:      config.Name,
		CardType:  config.CardType,
		TimeRange: config.TimeRange,
		Prompt:    config.Prompt,
		SortOrder: config.SortOrder,
		IsEnabled: config.IsEnabled,
		IsSystem:  config.IsSystem,
		CreatedAt: config.CreatedAt,
		UpdatedAt: config.UpdatedAt,
	}
}

// GetConfigs 获取用户全部洞察配置
func (cc *InsightConfigController) GetConfigs(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	configs, err := cc.configs.List(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err, "获取洞察配置失败")
		return
	}

	data := make([]models.InsightCardConfigResponse, 0, len(configs))
	for _, config := range configs {
		data = append(data, configToResponse(config))
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "获取成功",
		"data":    data,
		"total":   len(data),
	})
}

// CreateConfig 新建自定义洞察配置
func (cc *InsightConfigController) CreateConfig(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateInsightConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	config, err := cc.configs.CreateCustom(c.Request.Context(), uid, &req)
	if err != nil {
		respondServiceError(c, err, "创建洞察配置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "创建成功",
		"data":    configToResponse(*config),
	})
}

// UpdateConfig 更新自定义洞察配置
func (cc *InsightConfigController) UpdateConfig(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateInsightConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	config, err := cc.configs.UpdateCustom(c.Request.Context(), uid, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err, "更新洞察配置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "更新成功",
		"data":    configToResponse(*config),
	})
}

// DeleteConfig 删除配置，系统配置转为停用
func (cc *InsightConfigController) DeleteConfig(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := cc.configs.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondServiceError(c, err, "删除洞察配置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "删除成功"})
}

// ReorderConfigs 整体重排自定义配置
func (cc *InsightConfigController) ReorderConfigs(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ReorderConfigsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := cc.configs.Reorder(c.Request.Context(), uid, req.ConfigIDs); err != nil {
		respondServiceError(c, err, "调整排序失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "排序成功"})
}

// ToggleConfig 启用/停用配置
func (cc *InsightConfigController) ToggleConfig(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	config, err := cc.configs.Toggle(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "切换配置状态失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "操作成功",
		"data":    configToResponse(*config),
	})
}
