package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/config"
	"github.com/XiaoTongYuCode/guan-wo/middleware"
	"github.com/XiaoTongYuCode/guan-wo/repositories"
	"github.com/XiaoTongYuCode/guan-wo/routes"
	"github.com/XiaoTongYuCode/guan-wo/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化日志
	logger, err := config.InitLogger()
	if err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	defer logger.Sync()

	// 加载配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
		return
	}

	// 初始化数据库
	if err := config.InitDB(conf); err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
		return
	}

	// 初始化Redis
	if err := config.InitRedis(conf); err != nil {
		log.Fatalf("无法初始化Redis: %v", err)
		return
	}

	// 初始化LLM客户端
	llmClient, err := services.NewLLMClient(conf.LLMAPIKey, conf.LLMAPIEndpoint, conf.LLMModel)
	if err != nil {
		log.Fatalf("无法初始化LLM客户端: %v", err)
	}

	// 阿里云内容安全与语音转写客户端
	greenClient := services.NewAliyunGreenClient(
		conf.AliyunAccessKeyID, conf.AliyunAccessKeySecret, conf.AliyunRegion, conf.AliyunGreenEndpoint, logger)
	asrClient := services.NewAliyunASRClient(
		conf.AliyunAccessKeyID, conf.AliyunAccessKeySecret, conf.AliyunASRAppKey, conf.AliyunASREndpoint, logger)

	// 仓储层
	entryRepo := repositories.NewEntryRepository(config.DB)
	imageRepo := repositories.NewEntryImageRepository(config.DB)
	tagRepo := repositories.NewTagRepository(config.DB)
	entryTagRepo := repositories.NewEntryTagRepository(config.DB)
	cardRepo := repositories.NewInsightCardRepository(config.DB)
	configRepo := repositories.NewInsightConfigRepository(config.DB)

	// AI分析工作池
	analyzer := services.NewAnalyzer(
		conf.AnalyzeWorkers,
		conf.AnalyzeQueueSize,
		time.Duration(conf.AnalyzeTimeoutSec)*time.Second,
		logger,
	)

	// 业务服务层
	runTx := services.GormTxRunner(config.DB)
	journalService := services.NewJournalService(
		runTx, entryRepo, imageRepo, tagRepo, entryTagRepo,
		greenClient, asrClient, llmClient, analyzer, logger,
	)
	analyzer.Start(journalService.AnalyzeEntry)

	configService := services.NewInsightConfigService(runTx, configRepo, logger)
	insightService := services.NewInsightService(
		entryRepo, cardRepo, configService, llmClient, logger,
		services.InsightOptions{
			MinEmotionMapEntries: conf.InsightMinEmotionEntries,
			MinGratitudeEntries:  conf.InsightMinGratitudeEntries,
		},
	)
	flashService := services.NewFlashMomentService(entryRepo, imageRepo, entryTagRepo, logger)
	chartCache := services.NewRedisChartCache(config.RedisClient, logger)
	trackingService := services.NewTagTrackingService(entryRepo, entryTagRepo, chartCache, conf.TrackingMinEntries, logger)

	// 洞察卡片定时生成任务
	insightCron := services.NewInsightCron(conf.InsightCronSpec, insightService, logger)
	if err := insightCron.Start(); err != nil {
		log.Fatalf("无法启动洞察定时任务: %v", err)
	}

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin引擎
	r := gin.New()

	// 设置中间件
	middleware.SetupMiddleware(r)

	// 注册路由
	routes.RegisterRoutes(r, &conf, journalService, insightService, configService, flashService, trackingService)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	// 在goroutine中启动服务器
	go func() {
		log.Printf("启动服务器，监听端口: %s", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("正在关闭服务器...")

	// 创建超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v", err)
	}

	log.Println("服务器已关闭")

	// 等待后台任务退出
	log.Println("正在等待所有后台任务完成...")
	insightCron.Stop()
	analyzer.Close()
	log.Println("所有后台任务已完成")
}
