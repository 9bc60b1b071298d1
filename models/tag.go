package models

import (
	"time"

	"github.com/XiaoTongYuCode/guan-wo/utils"
	"gorm.io/gorm"
)

// TagType 标签类型
const (
	TagTypeSystem = "system" // 系统内置标签，全体用户可见
	TagTypeCustom = "custom" // 用户自定义标签
)

// Tag 标签模型
type Tag struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50)" json:"name"`
	TagType     string    `gorm:"type:varchar(20)" json:"tag_type"`
	UserID      string    `gorm:"type:varchar(100);index" json:"user_id"` // 系统标签为空
	IsEnabled   bool      `gorm:"default:true" json:"is_enabled"`
	Color       string    `gorm:"type:varchar(20)" json:"color"`
	Icon        string    `gorm:"type:varchar(50)" json:"icon"`
	Description string    `gorm:"type:varchar(200)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = utils.GenerateID()
	}
	return nil
}

// EntryTag 条目与标签的关联
type EntryTag struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	EntryID   string    `gorm:"type:varchar(36);index:idx_entry_tag,unique,priority:1" json:"entry_id"`
	TagID     string    `gorm:"type:varchar(36);index:idx_entry_tag,unique,priority:2;index" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (et *EntryTag) BeforeCreate(tx *gorm.DB) error {
	if et.ID == "" {
		et.ID = utils.GenerateID()
	}
	return nil
}
