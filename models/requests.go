package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EntryImageRequest 创建条目时携带的图片结构体
type EntryImageRequest struct {
	ImageURL     string `json:"image_url" binding:"required"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsLivePhoto  bool   `json:"is_live_photo"`
	SortOrder    int    `json:"sort_order"`
	UploadStatus string `json:"upload_status"`
}

// CreateEntryRequest 创建条目请求结构体
type CreateEntryRequest struct {
	Text              string              `json:"text"`
	Images            []EntryImageRequest `json:"images"`
	TagIDs            []string            `json:"tag_ids"`
	SourceType        string              `json:"source_type"`
	AudioURL          string              `json:"audio_url"`
	AudioDuration     int                 `json:"audio_duration"` // 秒
	TranscriptionText string              `json:"transcription_text"`
}

// Validate 校验创建条目请求，source_type缺省为text
func (r *CreateEntryRequest) Validate() error {
	if r.SourceType == "" {
		r.SourceType = SourceTypeText
	}
	if r.SourceType != SourceTypeText && r.SourceType != SourceTypeVoice {
		return fmt.Errorf("无效的来源类型: %s", r.SourceType)
	}
	hasText := strings.TrimSpace(r.Text) != "" || strings.TrimSpace(r.TranscriptionText) != ""
	if !hasText && r.AudioURL == "" {
		return fmt.Errorf("文本与语音不能同时为空")
	}
	if utf8.RuneCountInString(r.Text) > MaxEntryContentLen {
		return fmt.Errorf("文本内容最多%d字", MaxEntryContentLen)
	}
	if r.AudioDuration < 0 || r.AudioDuration > MaxAudioDurationSec {
		return fmt.Errorf("语音时长最多%d秒", MaxAudioDurationSec)
	}
	if len(r.Images) > MaxEntryImages {
		return fmt.Errorf("图片最多%d张", MaxEntryImages)
	}
	for _, img := range r.Images {
		if img.UploadStatus != "" && !ValidUploadStatus(img.UploadStatus) {
			return fmt.Errorf("无效的图片上传状态: %s", img.UploadStatus)
		}
	}
	return nil
}

// ReplaceTagsRequest 整体替换条目标签请求结构体
type ReplaceTagsRequest struct {
	TagIDs []string `json:"tag_ids"`
}

// CreateInsightConfigRequest 创建自定义洞察配置请求结构体
type CreateInsightConfigRequest struct {
	Name      string `json:"name" binding:"required"`
	TimeRange string `json:"time_range" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
}

// Validate 校验创建配置请求
func (r *CreateInsightConfigRequest) Validate() error {
	if utf8.RuneCountInString(r.Name) > 100 {
		return fmt.Errorf("配置名称最多100字")
	}
	if !ValidTimeRange(r.TimeRange) {
		return fmt.Errorf("无效的时间范围: %s", r.TimeRange)
	}
	return nil
}

// UpdateInsightConfigRequest 更新自定义洞察配置请求结构体，空字段不修改
type UpdateInsightConfigRequest struct {
	Name      string `json:"name"`
	TimeRange string `json:"time_range"`
	Prompt    string `json:"prompt"`
}

// Validate 校验更新配置请求
func (r *UpdateInsightConfigRequest) Validate() error {
	if utf8.RuneCountInString(r.Name) > 100 {
		return fmt.Errorf("配置名称最多100字")
	}
	if r.TimeRange != "" && !ValidTimeRange(r.TimeRange) {
		return fmt.Errorf("无效的时间范围: %s", r.TimeRange)
	}
	return nil
}

// ReorderConfigsRequest 重排自定义洞察配置请求结构体
type ReorderConfigsRequest struct {
	ConfigIDs []string `json:"config_ids" binding:"required"`
}
