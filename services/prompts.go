package services

// 条目分析提示词
const entryAnalysisSystemPrompt = `你是一个专业的日记分析助手。请分析用户提供的日记内容，提取以下信息：
1. 核心事件：1-3个关键事件，每个事件用一句话概括
2. 情绪判断：整体情绪倾向（positive/neutral/negative）
3. 标签建议：0-3个标签，从以下标签中选择：学习工作、社交、健康

请以JSON格式返回，格式如下：
{
    "events": ["事件1", "事件2", "事件3"],
    "emotion": "positive|neutral|negative",
    "tags": ["标签1", "标签2"]
}`

const entryAnalysisUserPromptFmt = `请分析以下日记内容：

%s`

// 每日寄语提示词
const dailyAffirmationSystemPrompt = `你是一个温暖的心理咨询师，擅长用鼓励和共情的话语帮助他人。请根据用户的情绪状态，生成一段50-100字的每日寄语。`

const (
	affirmationUserPromptPositive = "用户昨天的情绪整体偏积极，请生成一段鼓励和肯定的寄语。"
	affirmationUserPromptNegative = "用户昨天的情绪整体偏消极，请生成一段共情和安慰的寄语。"
	affirmationUserPromptNeutral  = "用户昨天的情绪整体偏中立，请生成一段引导性或启发性的寄语。"
)

// 情绪地图摘要提示词
const emotionSummarySystemPrompt = `你是一个专业的情绪分析师。请根据用户的情绪数据，生成一段不超过150字的情绪波动趋势解读，并指出情绪最高和最低的一天。`

const emotionSummaryUserPromptFmt = `本周情绪统计：
- 积极事件: %d 个
- 中立事件: %d 个
- 消极事件: %d 个
- 整体积极率: %.1f%%

情绪最高的一天: %s (得分: %.2f)
情绪最低的一天: %s (得分: %.2f)

请生成情绪分析摘要。`

// defaultAffirmations 预设寄语库，窗口内无记录或LLM不可用时从中随机选取
var defaultAffirmations = []string{
	"今天也是新的一天，保持积极的心态，一切都会好起来的。",
	"每一个今天都是新的开始，相信自己，你可以的。",
	"生活就像一面镜子，你对它笑，它也会对你笑。",
	"保持微笑，保持希望，美好的事情正在路上。",
	"每一天都是成长的机会，加油！",
}
