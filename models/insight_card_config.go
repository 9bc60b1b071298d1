package models

import (
	"time"

	"github.com/XiaoTongYuCode/guan-wo/utils"
	"gorm.io/gorm"
)

// TimeRange 洞察配置的数据窗口类型
const (
	TimeRangeDaily   = "daily"
	TimeRangeWeekly  = "weekly"
	TimeRangeMonthly = "monthly"
)

// ValidTimeRange 判断时间范围值是否合法
func ValidTimeRange(s string) bool {
	switch s {
	case TimeRangeDaily, TimeRangeWeekly, TimeRangeMonthly:
		return true
	default:
		return false
	}
}

// InsightCardConfig 洞察卡片配置
// 系统配置每用户每类型一条，自动补齐；自定义配置上限10条
type InsightCardConfig struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(100);index" json:"user_id"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	CardType  string    `gorm:"type:varchar(50)" json:"card_type"`
	TimeRange string    `gorm:"type:varchar(20)" json:"time_range"`
	Prompt    string    `gorm:"type:text" json:"prompt"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	IsEnabled bool      `gorm:"default:true" json:"is_enabled"`
	IsSystem  bool      `gorm:"default:false" json:"is_system"` // 系统配置不可删除，仅可停用
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *InsightCardConfig) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.GenerateID()
	}
	return nil
}
