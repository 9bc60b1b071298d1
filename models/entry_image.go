package models

import (
	"time"

	"github.com/XiaoTongYuCode/guan-wo/utils"
	"gorm.io/gorm"
)

// UploadStatus 图片上传状态
const (
	UploadStatusPending   = "pending"
	UploadStatusUploading = "uploading"
	UploadStatusSuccess   = "success"
	UploadStatusFailed    = "failed"
)

// ValidUploadStatus 判断上传状态值是否合法
func ValidUploadStatus(s string) bool {
	switch s {
	case UploadStatusPending, UploadStatusUploading, UploadStatusSuccess, UploadStatusFailed:
		return true
	default:
		return false
	}
}

// EntryImage 条目图片模型
type EntryImage struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EntryID      string    `gorm:"type:varchar(36);index" json:"entry_id"`
	ImageURL     string    `gorm:"type:varchar(500)" json:"image_url"`
	ThumbnailURL string    `gorm:"type:varchar(500)" json:"thumbnail_url"`
	UploadStatus string    `gorm:"type:varchar(20);default:pending" json:"upload_status"`
	IsLivePhoto  bool      `gorm:"default:false" json:"is_live_photo"`
	SortOrder    int       `gorm:"default:0" json:"sort_order"`
	FileSize     int64     `json:"file_size"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i *EntryImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = utils.GenerateID()
	}
	return nil
}
