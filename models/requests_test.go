package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntryRequestValidate(t *testing.T) {
	t.Run("默认来源为text", func(t *testing.T) {
		req := &CreateEntryRequest{Text: "今天很开心"}
		require.NoError(t, req.Validate())
		assert.Equal(t, SourceTypeText, req.SourceType)
	})

	t.Run("无效来源类型", func(t *testing.T) {
		req := &CreateEntryRequest{Text: "今天很开心", SourceType: "video"}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "无效的来源类型")
	})

	t.Run("文本与语音不能同时为空", func(t *testing.T) {
		req := &CreateEntryRequest{Text: "   "}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "文本与语音不能同时为空", err.Error())
	})

	t.Run("仅语音URL也可提交", func(t *testing.T) {
		req := &CreateEntryRequest{SourceType: SourceTypeVoice, AudioURL: "https://cdn.example.com/a.mp3"}
		assert.NoError(t, req.Validate())
	})

	t.Run("仅转写文本也可提交", func(t *testing.T) {
		req := &CreateEntryRequest{SourceType: SourceTypeVoice, TranscriptionText: "转写内容"}
		assert.NoError(t, req.Validate())
	})

	t.Run("文本超长按字符数计", func(t *testing.T) {
		// 5000个汉字恰好合法，5001个超限
		req := &CreateEntryRequest{Text: strings.Repeat("好", MaxEntryContentLen)}
		assert.NoError(t, req.Validate())

		req = &CreateEntryRequest{Text: strings.Repeat("好", MaxEntryContentLen+1)}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "文本内容最多5000字", err.Error())
	})

	t.Run("语音时长超限", func(t *testing.T) {
		req := &CreateEntryRequest{SourceType: SourceTypeVoice, AudioURL: "u", AudioDuration: MaxAudioDurationSec + 1}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "语音时长最多60秒", err.Error())
	})

	t.Run("图片数量超限", func(t *testing.T) {
		images := make([]EntryImageRequest, MaxEntryImages+1)
		for i := range images {
			images[i] = EntryImageRequest{ImageURL: "https://cdn.example.com/img.jpg"}
		}
		req := &CreateEntryRequest{Text: "带图", Images: images}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "图片最多9张", err.Error())
	})

	t.Run("无效图片上传状态", func(t *testing.T) {
		req := &CreateEntryRequest{
			Text:   "带图",
			Images: []EntryImageRequest{{ImageURL: "u", UploadStatus: "done"}},
		}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "无效的图片上传状态")
	})

	t.Run("合法图片上传状态", func(t *testing.T) {
		req := &CreateEntryRequest{
			Text: "带图",
			Images: []EntryImageRequest{
				{ImageURL: "u1", UploadStatus: UploadStatusSuccess},
				{ImageURL: "u2", UploadStatus: UploadStatusUploading},
				{ImageURL: "u3"},
			},
		}
		assert.NoError(t, req.Validate())
	})
}

func TestCreateInsightConfigRequestValidate(t *testing.T) {
	req := &CreateInsightConfigRequest{Name: "读书回顾", TimeRange: TimeRangeWeekly, Prompt: "总结我本周的阅读"}
	assert.NoError(t, req.Validate())

	req = &CreateInsightConfigRequest{Name: strings.Repeat("长", 101), TimeRange: TimeRangeDaily, Prompt: "p"}
	err := req.Validate()
	require.Error(t, err)
	assert.Equal(t, "配置名称最多100字", err.Error())

	req = &CreateInsightConfigRequest{Name: "n", TimeRange: "yearly", Prompt: "p"}
	err = req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "无效的时间范围")
}

func TestUpdateInsightConfigRequestValidate(t *testing.T) {
	// 空字段不参与校验
	req := &UpdateInsightConfigRequest{}
	assert.NoError(t, req.Validate())

	req = &UpdateInsightConfigRequest{TimeRange: TimeRangeMonthly}
	assert.NoError(t, req.Validate())

	req = &UpdateInsightConfigRequest{TimeRange: "hourly"}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "无效的时间范围")
}
