package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagNames(t *testing.T) {
	t.Run("别名归一到默认标签", func(t *testing.T) {
		assert.Equal(t, []string{"学习工作"}, NormalizeTagNames([]string{"职场"}))
		assert.Equal(t, []string{"社交"}, NormalizeTagNames([]string{"朋友"}))
		assert.Equal(t, []string{"健康"}, NormalizeTagNames([]string{"睡眠"}))
	})

	t.Run("默认标签名直接保留", func(t *testing.T) {
		assert.Equal(t, []string{"学习工作", "社交", "健康"},
			NormalizeTagNames([]string{"学习工作", "社交", "健康"}))
	})

	t.Run("无法归一的标签被丢弃", func(t *testing.T) {
		assert.Empty(t, NormalizeTagNames([]string{"旅行", "美食"}))
		assert.Equal(t, []string{"健康"}, NormalizeTagNames([]string{"旅行", "运动"}))
	})

	t.Run("同一标签的不同别名去重", func(t *testing.T) {
		assert.Equal(t, []string{"学习工作"}, NormalizeTagNames([]string{"学习", "工作", "职场"}))
	})

	t.Run("最多保留三个", func(t *testing.T) {
		got := NormalizeTagNames([]string{"学习", "朋友", "运动", "家庭", "睡眠"})
		assert.Equal(t, []string{"学习工作", "社交", "健康"}, got)
	})

	t.Run("空白容错", func(t *testing.T) {
		assert.Equal(t, []string{"社交"}, NormalizeTagNames([]string{" 朋友 "}))
	})

	t.Run("空输入", func(t *testing.T) {
		assert.Empty(t, NormalizeTagNames(nil))
		assert.Empty(t, NormalizeTagNames([]string{}))
	})
}

func TestIsDefaultTag(t *testing.T) {
	assert.True(t, IsDefaultTag("学习工作"))
	assert.True(t, IsDefaultTag("社交"))
	assert.True(t, IsDefaultTag("健康"))
	// 别名本身不是默认标签名
	assert.False(t, IsDefaultTag("朋友"))
	assert.False(t, IsDefaultTag("旅行"))
}
