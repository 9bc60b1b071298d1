package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher 后台分析任务分发
type Dispatcher interface {
	Dispatch(entryID, content string) bool
}

// AnalyzeFunc 单条分析任务的处理函数
type AnalyzeFunc func(ctx context.Context, entryID, content string)

type analyzeJob struct {
	entryID string
	content string
}

// Analyzer 条目分析工作池
// 条目提交后的AI分析在这里异步执行，队列有界，满了以后Dispatch返回false
type Analyzer struct {
	jobs    chan analyzeJob
	workers int
	timeout time.Duration
	logger  *zap.SugaredLogger
	wg      sync.WaitGroup
}

// NewAnalyzer 创建分析工作池
func NewAnalyzer(workers, queueSize int, timeout time.Duration, logger *zap.SugaredLogger) *Analyzer {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Analyzer{
		jobs:    make(chan analyzeJob, queueSize),
		workers: workers,
		timeout: timeout,
		logger:  logger,
	}
}

// Start 启动工作协程，handler处理单条任务
func (a *Analyzer) Start(handler AnalyzeFunc) {
	for i := 0; i < a.workers; i++ {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			for job := range a.jobs {
				a.run(handler, job)
			}
		}()
	}
}

func (a *Analyzer) run(handler AnalyzeFunc, job analyzeJob) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Errorw("分析任务panic", "entryID", job.entryID, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	handler(ctx, job.entryID, job.content)
}

// Dispatch 投递分析任务，队列已满时返回false
func (a *Analyzer) Dispatch(entryID, content string) bool {
	select {
	case a.jobs <- analyzeJob{entryID: entryID, content: content}:
		return true
	default:
		a.logger.Warnw("分析队列已满，任务被拒绝", "entryID", entryID)
		return false
	}
}

// Close 关闭任务队列并等待所有后台任务完成
func (a *Analyzer) Close() {
	close(a.jobs)
	a.wg.Wait()
}
