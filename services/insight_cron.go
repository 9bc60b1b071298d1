package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepTimeout 单次定时扫描的最长执行时间
const sweepTimeout = 10 * time.Minute

// InsightCron 洞察卡片定时生成任务
type InsightCron struct {
	cron    *cron.Cron
	insight *InsightService
	logger  *zap.SugaredLogger
	spec    string
}

// NewInsightCron 创建定时任务，spec为标准5段cron表达式
func NewInsightCron(spec string, insight *InsightService, logger *zap.SugaredLogger) *InsightCron {
	return &InsightCron{
		cron:    cron.New(),
		insight: insight,
		logger:  logger,
		spec:    spec,
	}
}

// Start 注册并启动定时任务
func (c *InsightCron) Start() error {
	_, err := c.cron.AddFunc(c.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		c.insight.RunDailySweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("注册洞察定时任务失败: %w", err)
	}
	c.cron.Start()
	c.logger.Infow("洞察定时任务已启动", "spec", c.spec)
	return nil
}

// Stop 停止定时任务并等待正在执行的扫描结束
func (c *InsightCron) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()
}
