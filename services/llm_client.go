package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/XiaoTongYuCode/guan-wo/utils"
	"github.com/kaptinlin/jsonrepair"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// AnalysisResult 条目AI分析结果
type AnalysisResult struct {
	Events  []string `json:"events"`
	Emotion string   `json:"emotion"`
	Tags    []string `json:"tags"`
}

// EntryAnalyzer 条目分析提供方
type EntryAnalyzer interface {
	AnalyzeEntry(ctx context.Context, content string) (*AnalysisResult, error)
}

// ChatModel 自由文本生成提供方
type ChatModel interface {
	Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// LLMClient 大模型客户端，条目分析走JSON输出，洞察文案走自由文本输出
type LLMClient struct {
	analyzeModel llms.Model
	chatModel    llms.Model
}

// NewLLMClient 创建LLM客户端，endpoint为OpenAI兼容接口地址
func NewLLMClient(apiKey, apiEndpoint, model string) (*LLMClient, error) {
	analyzeModel, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{
			Type: "json_object",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	chatModel, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(apiEndpoint),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &LLMClient{
		analyzeModel: analyzeModel,
		chatModel:    chatModel,
	}, nil
}

func (c *LLMClient) generate(ctx context.Context, model llms.Model, systemPrompt, userPrompt string, temperature float64) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := model.GenerateContent(ctx, messages, llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("LLM调用失败: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("LLM未返回有效内容")
	}
	return response.Choices[0].Content, nil
}

// Chat 发送对话请求，返回生成的文本
func (c *LLMClient) Chat(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	return c.generate(ctx, c.chatModel, systemPrompt, userPrompt, temperature)
}

// AnalyzeEntry 分析日记内容，提取核心事件、情绪倾向和标签建议
func (c *LLMClient) AnalyzeEntry(ctx context.Context, content string) (*AnalysisResult, error) {
	raw, err := c.generate(ctx, c.analyzeModel,
		entryAnalysisSystemPrompt,
		fmt.Sprintf(entryAnalysisUserPromptFmt, content),
		0.3)
	if err != nil {
		return nil, err
	}
	return parseAnalysisResult(raw, content), nil
}

// parseAnalysisResult 解析LLM返回的JSON分析结果
// 模型输出可能带markdown围栏或轻微格式错误，先剥围栏再尝试修复；
// 完全无法解析时退回占位结果，不让单次解析失败拖垮整条分析链路
func parseAnalysisResult(raw, content string) *AnalysisResult {
	text := strings.TrimSpace(stripJSONFence(raw))

	var payload struct {
		Events  json.RawMessage `json:"events"`
		Emotion string          `json:"emotion"`
		Tags    json.RawMessage `json:"tags"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return fallbackAnalysisResult(content)
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return fallbackAnalysisResult(content)
		}
	}

	events := asStringList(payload.Events)
	if len(events) > models.MaxEntryEvents {
		events = events[:models.MaxEntryEvents]
	}
	tags := asStringList(payload.Tags)
	if len(tags) > maxEntryTags {
		tags = tags[:maxEntryTags]
	}

	return &AnalysisResult{
		Events:  events,
		Emotion: string(models.NormalizeEmotion(payload.Emotion)),
		Tags:    tags,
	}
}

// fallbackAnalysisResult 解析失败时按原文截断生成占位事件
func fallbackAnalysisResult(content string) *AnalysisResult {
	return &AnalysisResult{
		Events:  []string{utils.TruncateRunes(content, 50)},
		Emotion: string(models.EmotionNeutral),
		Tags:    []string{},
	}
}

// stripJSONFence 提取```json代码块中的内容
func stripJSONFence(s string) string {
	idx := strings.Index(s, "```json")
	if idx < 0 {
		return s
	}
	rest := s[idx+len("```json"):]
	if end := strings.Index(rest, "```"); end >= 0 {
		return rest[:end]
	}
	return rest
}

// asStringList 兼容模型把单个字符串当作列表返回的情况
func asStringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}
	return []string{}
}
