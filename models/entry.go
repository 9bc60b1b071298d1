package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/XiaoTongYuCode/guan-wo/utils"
	"gorm.io/gorm"
)

// 条目约束
const (
	MaxEntryContentLen  = 5000 // 文本最多5000字
	MaxAudioDurationSec = 60   // 语音最长60秒
	MaxEntryImages      = 9    // 图片最多9张
	MaxEntryEvents      = 3    // 核心事件最多3个
)

// SourceType 条目来源
const (
	SourceTypeText  = "text"
	SourceTypeVoice = "voice"
)

// EntryStatus 条目状态
type EntryStatus string

const (
	EntryStatusSending  EntryStatus = "sending"  // 已提交，等待AI分析
	EntryStatusSuccess  EntryStatus = "success"  // 分析完成
	EntryStatusFailed   EntryStatus = "failed"   // 分析失败，可重试
	EntryStatusViolated EntryStatus = "violated" // 审核未通过，终态
)

// entryTransitions 状态转换表，空列表表示终态
var entryTransitions = map[EntryStatus][]EntryStatus{
	EntryStatusSending:  {EntryStatusSuccess, EntryStatusFailed},
	EntryStatusFailed:   {EntryStatusSending},
	EntryStatusSuccess:  {},
	EntryStatusViolated: {},
}

// Valid 判断状态值是否合法
func (s EntryStatus) Valid() bool {
	_, ok := entryTransitions[s]
	return ok
}

// CanTransitionTo 判断是否允许转换到目标状态
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	for _, t := range entryTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Emotion 情绪枚举
type Emotion string

const (
	EmotionPositive Emotion = "positive"
	EmotionNeutral  Emotion = "neutral"
	EmotionNegative Emotion = "negative"
)

// NormalizeEmotion 将LLM返回的情绪值校准到合法枚举，未识别的归为neutral
func NormalizeEmotion(raw string) Emotion {
	switch Emotion(strings.ToLower(strings.TrimSpace(raw))) {
	case EmotionPositive:
		return EmotionPositive
	case EmotionNegative:
		return EmotionNegative
	default:
		return EmotionNeutral
	}
}

// Entry 条目/记录模型
type Entry struct {
	ID            string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        string      `gorm:"type:varchar(100);index:idx_user_created,priority:1" json:"user_id"`
	Content       string      `gorm:"type:text" json:"content"` // 文本内容，最多5000字
	Emotion       string      `gorm:"type:varchar(20)" json:"emotion"`
	Status        EntryStatus `gorm:"type:varchar(20);default:sending" json:"status"`
	IsVisible     bool        `gorm:"default:true" json:"is_visible"` // 内容审核用，违规条目不可见
	EventsJSON    string      `gorm:"type:json" json:"-"`             // {"events": [...]}
	WordCount     int         `json:"word_count"`
	SourceType    string      `gorm:"type:varchar(20)" json:"source_type"`
	AudioDuration int         `json:"audio_duration"` // 语音时长，秒
	ShareCount    int         `gorm:"default:0" json:"share_count"`
	CreatedAt     time.Time   `gorm:"index:idx_user_created,priority:2" json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = utils.GenerateID()
	}
	return nil
}

type entryEvents struct {
	Events []string `json:"events"`
}

// MarshalEvents 将事件列表编码为events_json存储格式
func MarshalEvents(events []string) (string, error) {
	raw, err := json.Marshal(entryEvents{Events: events})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Events 解析events_json中的核心事件列表
func (e *Entry) Events() []string {
	if e.EventsJSON == "" {
		return nil
	}
	var payload entryEvents
	if err := json.Unmarshal([]byte(e.EventsJSON), &payload); err != nil {
		return nil
	}
	return payload.Events
}

// SetEvents 写入核心事件列表
func (e *Entry) SetEvents(events []string) error {
	raw, err := MarshalEvents(events)
	if err != nil {
		return err
	}
	e.EventsJSON = raw
	return nil
}

// EntryDetail 条目聚合读模型，条目本体加上图片与标签
type EntryDetail struct {
	Entry
	Images []EntryImage `json:"images"`
	Tags   []Tag        `json:"tags"`
}
