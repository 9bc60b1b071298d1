package routes

import (
	"github.com/XiaoTongYuCode/guan-wo/config"
	"github.com/XiaoTongYuCode/guan-wo/controllers"
	"github.com/XiaoTongYuCode/guan-wo/middleware"
	"github.com/XiaoTongYuCode/guan-wo/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	conf *config.Config,
	journalService *services.JournalService,
	insightService *services.InsightService,
	configService *services.InsightConfigService,
	flashService *services.FlashMomentService,
	trackingService *services.TagTrackingService,
) {
	journalController := controllers.NewJournalController(journalService)
	insightController := controllers.NewInsightController(insightService)
	configController := controllers.NewInsightConfigController(configService)
	flashController := controllers.NewFlashMomentController(flashService)
	trackingController := controllers.NewTagTrackingController(trackingService, journalService)

	// 生产环境关闭mock用户回退
	mockUserID := conf.MockUserID
	if conf.Environment == "production" {
		mockUserID = ""
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(conf.JWTSecret, mockUserID)) // 应用认证中间件
	{
		// 日记条目相关接口
		journal := private.Group("/journal")
		{
			journal.GET("/entries", journalController.GetEntries)
			journal.POST("/entries", journalController.CreateEntry)
			journal.GET("/entries/:id", journalController.GetEntryDetail)
			journal.POST("/entries/:id/retry", journalController.RetryEntry)
			journal.PUT("/entries/:id/tags", journalController.ReplaceEntryTags)
			journal.GET("/tags", journalController.GetTags)
			journal.GET("/stats/daily", journalController.GetDailyStats)
		}

		// 洞察卡片与配置相关接口
		insights := private.Group("/insights")
		{
			insights.GET("/cards", insightController.GetCards)
			insights.GET("/cards/:id", insightController.GetCardDetail)
			insights.POST("/cards/generate/daily", insightController.GenerateDaily)
			insights.POST("/cards/generate/weekly-emotion", insightController.GenerateWeeklyEmotion)
			insights.POST("/cards/generate/weekly-gratitude", insightController.GenerateWeeklyGratitude)
			insights.POST("/cards/generate/custom/:config_id", insightController.GenerateCustom)
			insights.POST("/cards/:id/hide", insightController.HideCard)
			insights.POST("/cards/:id/show", insightController.ShowCard)
			insights.POST("/cards/:id/share", insightController.ShareCard)

			insights.GET("/configs", configController.GetConfigs)
			insights.POST("/configs", configController.CreateConfig)
			insights.PUT("/configs/:id", configController.UpdateConfig)
			insights.DELETE("/configs/:id", configController.DeleteConfig)
			insights.POST("/configs/reorder", configController.ReorderConfigs)
			insights.POST("/configs/:id/toggle", configController.ToggleConfig)
		}

		// 闪光时刻相关接口
		flash := private.Group("/flash")
		{
			flash.GET("/moments", flashController.GetFlashMoments)
			flash.GET("/moments/:id", flashController.GetFlashMomentDetail)
			flash.POST("/moments/:id/share", flashController.ShareFlashMoment)
		}

		// 标签追踪与图表相关接口
		tracking := private.Group("/tracking")
		{
			tracking.GET("/overview", trackingController.GetOverview)
			tracking.GET("/tag/:id", trackingController.GetTagTracking)
			tracking.GET("/tag/:id/entries", trackingController.GetTagEntries)
		}
	}

	// 内部路由组（仅限服务器内部调用）
	internal := r.Group("/internal")
	internal.Use(middleware.InternalAuthMiddleware()) // 添加内部认证中间件
	{
		internal.POST("/insights/sweep", insightController.RunSweep)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
