package services

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"
)

// SafetyResult 内容安全检查结果
type SafetyResult struct {
	IsSafe bool   `json:"is_safe"`
	Label  string `json:"label,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// ContentSafetyGate 内容安全网关
type ContentSafetyGate interface {
	CheckText(ctx context.Context, content string) (*SafetyResult, error)
	CheckImage(ctx context.Context, imageURL string) (*SafetyResult, error)
}

// AliyunGreenClient 阿里云内容安全客户端
// TODO(green): 接入green-cip的text/image moderation接口，替换占位放行逻辑
type AliyunGreenClient struct {
	accessKeyID     string
	accessKeySecret string
	region          string
	endpoint        string
	logger          *zap.SugaredLogger
}

// NewAliyunGreenClient 创建内容安全客户端
func NewAliyunGreenClient(accessKeyID, accessKeySecret, region, endpoint string, logger *zap.SugaredLogger) *AliyunGreenClient {
	return &AliyunGreenClient{
		accessKeyID:     accessKeyID,
		accessKeySecret: accessKeySecret,
		region:          region,
		endpoint:        endpoint,
		logger:          logger,
	}
}

// CheckText 检查文本内容
func (c *AliyunGreenClient) CheckText(ctx context.Context, content string) (*SafetyResult, error) {
	c.logger.Debugw("调用阿里云文本内容安全占位", "length", utf8.RuneCountInString(content))
	return &SafetyResult{IsSafe: true, Detail: "stub"}, nil
}

// CheckImage 检查图片内容
func (c *AliyunGreenClient) CheckImage(ctx context.Context, imageURL string) (*SafetyResult, error) {
	c.logger.Debugw("调用阿里云图片内容安全占位", "imageURL", imageURL)
	return &SafetyResult{IsSafe: true, Detail: "stub"}, nil
}
