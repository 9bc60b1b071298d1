package services

import "strings"

// maxEntryTags 单次分析最多保留的标签数
const maxEntryTags = 3

// defaultTagAliases 默认标签别名映射，LLM产出的标签名经此表归一到系统标签
var defaultTagAliases = map[string][]string{
	"学习工作": {"学习", "工作", "职场", "学习工作"},
	"社交":   {"社交", "朋友", "家庭", "同事"},
	"健康":   {"健康", "运动", "锻炼", "睡眠"},
}

var tagAliasIndex = buildTagAliasIndex()

func buildTagAliasIndex() map[string]string {
	index := make(map[string]string)
	for canonical, aliases := range defaultTagAliases {
		index[canonical] = canonical
		for _, alias := range aliases {
			index[alias] = canonical
		}
	}
	return index
}

// NormalizeTagNames 将标签名归一到默认标签集，去重并限制数量
// 无法归一的标签名被丢弃
func NormalizeTagNames(names []string) []string {
	seen := make(map[string]bool)
	normalized := make([]string, 0, maxEntryTags)
	for _, name := range names {
		canonical, ok := tagAliasIndex[strings.TrimSpace(name)]
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		normalized = append(normalized, canonical)
		if len(normalized) == maxEntryTags {
			break
		}
	}
	return normalized
}

// IsDefaultTag 判断标签名是否属于默认标签集
func IsDefaultTag(name string) bool {
	_, ok := defaultTagAliases[name]
	return ok
}
