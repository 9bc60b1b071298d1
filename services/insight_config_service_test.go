package services

import (
	"context"
	"testing"

	"github.com/XiaoTongYuCode/guan-wo/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConfigFixture(t *testing.T) (*InsightConfigService, *fakeConfigRepo) {
	t.Helper()
	repo := newFakeConfigRepo()
	service := NewInsightConfigService(NoopTxRunner(), repo, zap.NewNop().Sugar())
	return service, repo
}

func createCustomConfig(t *testing.T, service *InsightConfigService, userID, name string) *models.InsightCardConfig {
	t.Helper()
	config, err := service.CreateCustom(context.Background(), userID, &models.CreateInsightConfigRequest{
		Name:      name,
		TimeRange: models.TimeRangeWeekly,
		Prompt:    "总结" + name,
	})
	require.NoError(t, err)
	return config
}

func TestEnsureDefaultsCreatesSystemConfigs(t *testing.T) {
	service, _ := newConfigFixture(t)

	configs, err := service.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, "每日寄语", configs[0].Name)
	assert.Equal(t, models.CardTypeDailyAffirmation, configs[0].CardType)
	assert.Equal(t, models.TimeRangeDaily, configs[0].TimeRange)
	assert.Equal(t, "每周情绪地图", configs[1].Name)
	assert.Equal(t, models.CardTypeWeeklyEmotionMap, configs[1].CardType)
	assert.Equal(t, "每周感恩清单", configs[2].Name)
	assert.Equal(t, models.CardTypeWeeklyGratitude, configs[2].CardType)
	for i, config := range configs {
		assert.True(t, config.IsSystem)
		assert.True(t, config.IsEnabled)
		assert.Equal(t, i, config.SortOrder)
	}
}

func TestEnsureDefaultsIdempotent(t *testing.T) {
	service, repo := newConfigFixture(t)

	require.NoError(t, service.EnsureDefaults(context.Background(), "user-1"))
	require.NoError(t, service.EnsureDefaults(context.Background(), "user-1"))

	configs, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, configs, 3)
}

func TestEnsureDefaultsRepairsDrift(t *testing.T) {
	service, repo := newConfigFixture(t)
	require.NoError(t, service.EnsureDefaults(context.Background(), "user-1"))

	configs, _ := repo.ListByUser(context.Background(), "user-1")
	drifted := configs[0]
	require.NoError(t, repo.Update(context.Background(), drifted.ID, map[string]interface{}{
		"sort_order": 42,
		"time_range": models.TimeRangeMonthly,
		"is_enabled": false,
	}))

	require.NoError(t, service.EnsureDefaults(context.Background(), "user-1"))

	repaired, _ := repo.GetByID(context.Background(), drifted.ID)
	assert.Equal(t, 0, repaired.SortOrder)
	assert.Equal(t, models.TimeRangeDaily, repaired.TimeRange)
	// 停用状态由用户掌控，补齐不会重新启用
	assert.False(t, repaired.IsEnabled)
}

func TestCreateCustomConfig(t *testing.T) {
	service, _ := newConfigFixture(t)

	config := createCustomConfig(t, service, "user-1", "读书回顾")
	assert.Equal(t, models.CardTypeCustom, config.CardType)
	assert.False(t, config.IsSystem)
	assert.True(t, config.IsEnabled)
	// 自定义配置排在系统配置之后
	assert.Equal(t, 100, config.SortOrder)

	second := createCustomConfig(t, service, "user-1", "健身总结")
	assert.Equal(t, 101, second.SortOrder)
}

func TestCreateCustomConfigLimit(t *testing.T) {
	service, _ := newConfigFixture(t)

	for i := 0; i < customConfigLimit; i++ {
		createCustomConfig(t, service, "user-1", "配置")
	}

	_, err := service.CreateCustom(context.Background(), "user-1", &models.CreateInsightConfigRequest{
		Name: "超限", TimeRange: models.TimeRangeDaily, Prompt: "p",
	})
	assert.ErrorIs(t, err, ErrConfigLimit)
}

func TestUpdateCustomConfig(t *testing.T) {
	service, _ := newConfigFixture(t)
	config := createCustomConfig(t, service, "user-1", "读书回顾")

	updated, err := service.UpdateCustom(context.Background(), "user-1", config.ID, &models.UpdateInsightConfigRequest{
		Name:      "阅读周报",
		TimeRange: models.TimeRangeMonthly,
	})
	require.NoError(t, err)
	assert.Equal(t, "阅读周报", updated.Name)
	assert.Equal(t, models.TimeRangeMonthly, updated.TimeRange)
	// 未提交的字段不变
	assert.Equal(t, "总结读书回顾", updated.Prompt)
}

func TestUpdateCustomConfigEmptyRequest(t *testing.T) {
	service, _ := newConfigFixture(t)
	config := createCustomConfig(t, service, "user-1", "读书回顾")

	updated, err := service.UpdateCustom(context.Background(), "user-1", config.ID, &models.UpdateInsightConfigRequest{})
	require.NoError(t, err)
	assert.Equal(t, "读书回顾", updated.Name)
}

func TestUpdateSystemConfigRejected(t *testing.T) {
	service, repo := newConfigFixture(t)
	require.NoError(t, service.EnsureDefaults(context.Background(), "user-1"))
	configs, _ := repo.ListByUser(context.Background(), "user-1")

	_, err := service.UpdateCustom(context.Background(), "user-1", configs[0].ID, &models.UpdateInsightConfigRequest{Name: "改名"})
	assert.ErrorIs(t, err, ErrSystemConfigImmutable)
}

func TestDeleteCustomConfig(t *testing.T) {
	service, repo := newConfigFixture(t)
	config := createCustomConfig(t, service, "user-1", "读书回顾")

	require.NoError(t, service.Delete(context.Background(), "user-1", config.ID))

	gone, _ := repo.GetByID(context.Background(), config.ID)
	assert.Nil(t, gone)
}

func TestDeleteSystemConfigOnlyDisables(t *testing.T) {
	service, repo := newConfigFixture(t)
	require.NoError(t, service.EnsureDefaults(context.Background(), "user-1"))
	configs, _ := repo.ListByUser(context.Background(), "user-1")

	require.NoError(t, service.Delete(context.Background(), "user-1", configs[0].ID))

	kept, _ := repo.GetByID(context.Background(), configs[0].ID)
	require.NotNil(t, kept)
	assert.False(t, kept.IsEnabled)
}

func TestConfigOwnership(t *testing.T) {
	service, _ := newConfigFixture(t)
	config := createCustomConfig(t, service, "user-1", "读书回顾")

	_, err := service.UpdateCustom(context.Background(), "user-2", config.ID, &models.UpdateInsightConfigRequest{Name: "偷改"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = service.Delete(context.Background(), "user-2", config.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.Toggle(context.Background(), "user-2", config.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderConfigs(t *testing.T) {
	service, repo := newConfigFixture(t)
	a := createCustomConfig(t, service, "user-1", "A")
	b := createCustomConfig(t, service, "user-1", "B")
	c := createCustomConfig(t, service, "user-1", "C")

	require.NoError(t, service.Reorder(context.Background(), "user-1", []string{c.ID, a.ID, b.ID}))

	configs, _ := repo.ListByUser(context.Background(), "user-1")
	// 前三个是系统配置，其后按新顺序排列
	require.Len(t, configs, 6)
	assert.Equal(t, c.ID, configs[3].ID)
	assert.Equal(t, a.ID, configs[4].ID)
	assert.Equal(t, b.ID, configs[5].ID)
}

func TestReorderConfigsMismatch(t *testing.T) {
	service, repo := newConfigFixture(t)
	a := createCustomConfig(t, service, "user-1", "A")
	b := createCustomConfig(t, service, "user-1", "B")
	require.NoError(t, service.EnsureDefaults(context.Background(), "user-1"))
	configs, _ := repo.ListByUser(context.Background(), "user-1")
	systemID := configs[0].ID

	// 缺少一个
	assert.ErrorIs(t, service.Reorder(context.Background(), "user-1", []string{a.ID}), ErrReorderMismatch)
	// 混入系统配置
	assert.ErrorIs(t, service.Reorder(context.Background(), "user-1", []string{a.ID, systemID}), ErrReorderMismatch)
	// 重复ID
	assert.ErrorIs(t, service.Reorder(context.Background(), "user-1", []string{a.ID, a.ID}), ErrReorderMismatch)
	// 混入不存在的ID
	assert.ErrorIs(t, service.Reorder(context.Background(), "user-1", []string{a.ID, "ghost"}), ErrReorderMismatch)
	_ = b
}

func TestToggleConfig(t *testing.T) {
	service, repo := newConfigFixture(t)
	config := createCustomConfig(t, service, "user-1", "读书回顾")

	toggled, err := service.Toggle(context.Background(), "user-1", config.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsEnabled)

	stored, _ := repo.GetByID(context.Background(), config.ID)
	assert.False(t, stored.IsEnabled)

	toggled, err = service.Toggle(context.Background(), "user-1", config.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsEnabled)
}
