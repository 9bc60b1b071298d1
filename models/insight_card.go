package models

import (
	"encoding/json"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/utils"
	"gorm.io/gorm"
)

// CardType 洞察卡片类型
const (
	CardTypeDailyAffirmation = "daily_affirmation"
	CardTypeWeeklyEmotionMap = "weekly_emotion_map"
	CardTypeWeeklyGratitude  = "weekly_gratitude_list"
	CardTypeCustom           = "custom"
)

// ValidCardType 判断卡片类型是否合法
func ValidCardType(s string) bool {
	switch s {
	case CardTypeDailyAffirmation, CardTypeWeeklyEmotionMap, CardTypeWeeklyGratitude, CardTypeCustom:
		return true
	default:
		return false
	}
}

// InsightCard 洞察卡片模型
// 同一用户、同一类型、同一数据窗口最多存在一张卡片
type InsightCard struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string    `gorm:"type:varchar(100);index:idx_user_hidden,priority:1" json:"user_id"`
	CardType      string    `gorm:"type:varchar(50)" json:"card_type"`
	ConfigID      string    `gorm:"type:varchar(36);index" json:"config_id"` // 生成来源配置
	ContentJSON   string    `gorm:"type:json" json:"-"`
	DataStartTime time.Time `json:"data_start_time"`
	DataEndTime   time.Time `json:"data_end_time"`
	IsViewed      bool      `gorm:"default:false" json:"is_viewed"`
	IsHidden      bool      `gorm:"default:false;index:idx_user_hidden,priority:2" json:"is_hidden"`
	ViewCount     int       `gorm:"default:0" json:"view_count"`
	ShareCount    int       `gorm:"default:0" json:"share_count"`
	GeneratedAt   time.Time `gorm:"index" json:"generated_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *InsightCard) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = utils.GenerateID()
	}
	if c.GeneratedAt.IsZero() {
		c.GeneratedAt = time.Now()
	}
	return nil
}

// SetContent 将卡片内容编码为content_json
func (c *InsightCard) SetContent(v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.ContentJSON = string(raw)
	return nil
}

// Content 解析content_json，解析失败时返回空对象
func (c *InsightCard) Content() map[string]interface{} {
	content := map[string]interface{}{}
	if c.ContentJSON == "" {
		return content
	}
	if err := json.Unmarshal([]byte(c.ContentJSON), &content); err != nil {
		return map[string]interface{}{}
	}
	return content
}

// AffirmationContent 每日寄语卡片内容
type AffirmationContent struct {
	Affirmation string `json:"affirmation"`
}

// EmotionMapContent 每周情绪地图卡片内容
type EmotionMapContent struct {
	EmotionStats map[string]int      `json:"emotion_stats"`
	DailyScores  []EmotionTrendPoint `json:"daily_scores"`
	Summary      string              `json:"summary"`
}

// GratitudeEvent 感恩清单中的一条积极事件
type GratitudeEvent struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// GratitudeContent 每周感恩清单卡片内容
type GratitudeContent struct {
	Events []GratitudeEvent `json:"events"`
}

// CustomCardContent 自定义洞察卡片内容
type CustomCardContent struct {
	Summary    string `json:"summary"`
	EntryCount int    `json:"entry_count"`
}
