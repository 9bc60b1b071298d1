package models

import "time"

// EntryImageResponse 条目图片响应结构体
type EntryImageResponse struct {
	ID           string `json:"id"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	UploadStatus string `json:"upload_status"`
	IsLivePhoto  bool   `json:"is_live_photo"`
	SortOrder    int    `json:"sort_order"`
}

// TagResponse 标签响应结构体
type TagResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TagType string `json:"tag_type"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
}

// EntryResponse 条目响应结构体
type EntryResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	Content       string               `json:"content"`
	Emotion       string               `json:"emotion"`
	Status        EntryStatus          `json:"status"`
	IsVisible     bool                 `json:"is_visible"`
	Events        []string             `json:"events"`
	WordCount     int                  `json:"word_count"`
	SourceType    string               `json:"source_type"`
	AudioDuration int                  `json:"audio_duration"`
	ShareCount    int                  `json:"share_count"`
	Images        []EntryImageResponse `json:"images"`
	Tags          []TagResponse        `json:"tags"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// FlashMomentResponse 闪光时刻响应结构体
type FlashMomentResponse struct {
	ID             string               `json:"id"`
	UserID         string               `json:"user_id"`
	Content        string               `json:"content"`
	ContentSummary string               `json:"content_summary"`
	Emotion        string               `json:"emotion"`
	ShareCount     int                  `json:"share_count"`
	Images         []EntryImageResponse `json:"images"`
	CreatedAt      time.Time            `json:"created_at"`
}

// InsightCardResponse 洞察卡片响应结构体
type InsightCardResponse struct {
	ID            string                 `json:"id"`
	UserID        string                 `json:"user_id"`
	CardType      string                 `json:"card_type"`
	ConfigID      string                 `json:"config_id,omitempty"`
	Content       map[string]interface{} `json:"content"`
	DataStartTime time.Time              `json:"data_start_time"`
	DataEndTime   time.Time              `json:"data_end_time"`
	IsViewed      bool                   `json:"is_viewed"`
	IsHidden      bool                   `json:"is_hidden"`
	ViewCount     int                    `json:"view_count"`
	ShareCount    int                    `json:"share_count"`
	GeneratedAt   time.Time              `json:"generated_at"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// InsightCardConfigResponse 洞察配置响应结构体
type InsightCardConfigResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CardType  string    `json:"card_type"`
	TimeRange string    `json:"time_range"`
	Prompt    string    `json:"prompt"`
	SortOrder int       `json:"sort_order"`
	IsEnabled bool      `json:"is_enabled"`
	IsSystem  bool      `json:"is_system"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DailyEntryStat 某一天的记录统计，热力图数据点
type DailyEntryStat struct {
	Date      string `json:"date"`
	Count     int    `json:"count"`
	WordCount int    `json:"word_count"`
}

// TagBubble 标签气泡图数据点
type TagBubble struct {
	TagID      string `json:"tag_id"`
	TagName    string `json:"tag_name"`
	Color      string `json:"color"`
	EventCount int    `json:"event_count"`
}

// EmotionDistribution 某标签下的情绪分布
type EmotionDistribution struct {
	Positive        int     `json:"positive"`
	Neutral         int     `json:"neutral"`
	Negative        int     `json:"negative"`
	Total           int     `json:"total"`
	PositivePercent float64 `json:"positive_percent"`
	NeutralPercent  float64 `json:"neutral_percent"`
	NegativePercent float64 `json:"negative_percent"`
}

// EmotionTrendPoint 情绪趋势曲线数据点，score为当日积极占比
type EmotionTrendPoint struct {
	Date          string  `json:"date"`
	Score         float64 `json:"score"`
	PositiveCount int     `json:"positive_count"`
	TotalCount    int     `json:"total_count"`
}

// TrackingHealth 追踪图表的数据健康度
type TrackingHealth struct {
	EntryCount    int  `json:"entry_count"`
	ActiveDays    int  `json:"active_days"`
	HasEnoughData bool `json:"has_enough_data"`
}
