package utils

// TruncateRunes 按字符截断文本，超长时追加省略号
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
