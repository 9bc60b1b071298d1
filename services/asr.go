package services

import (
	"context"

	"go.uber.org/zap"
)

// Transcriber 语音转写提供方，返回转写文本与识别出的时长（秒）
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (string, int, error)
}

// AliyunASRClient 阿里云语音识别客户端
// TODO(asr): 接入nls-gateway的一句话识别接口，替换占位转写逻辑
type AliyunASRClient struct {
	accessKeyID     string
	accessKeySecret string
	appKey          string
	endpoint        string
	logger          *zap.SugaredLogger
}

// NewAliyunASRClient 创建语音识别客户端
func NewAliyunASRClient(accessKeyID, accessKeySecret, appKey, endpoint string, logger *zap.SugaredLogger) *AliyunASRClient {
	return &AliyunASRClient{
		accessKeyID:     accessKeyID,
		accessKeySecret: accessKeySecret,
		appKey:          appKey,
		endpoint:        endpoint,
		logger:          logger,
	}
}

// Transcribe 转写语音文件
func (c *AliyunASRClient) Transcribe(ctx context.Context, audioURL string) (string, int, error) {
	c.logger.Infow("调用阿里云ASR占位", "audioURL", audioURL)
	return "【占位转写结果】语音识别功能待接入阿里云ASR", 0, nil
}
