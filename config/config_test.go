package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// viper持有全局状态，整个配置加载只在这一个用例里做一次
func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	env := `DB_HOST=db.internal
DB_PORT=3306
DB_USER=guanwo
DB_PASSWORD=secret
DB_NAME=guanwo
JWT_SECRET=testing-secret
ANALYZE_WORKERS=8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	conf, err := LoadConfig(dir)
	require.NoError(t, err)

	// 文件里给定的值
	assert.Equal(t, "db.internal", conf.DBHost)
	assert.Equal(t, "guanwo", conf.DBUser)
	assert.Equal(t, "testing-secret", conf.JWTSecret)
	assert.Equal(t, 8, conf.AnalyzeWorkers)

	// 未给定的走默认值
	assert.Equal(t, "development", conf.Environment)
	assert.Equal(t, "8000", conf.ServerPort)
	assert.Equal(t, "https://api.siliconflow.cn/v1", conf.LLMAPIEndpoint)
	assert.Equal(t, "mock_user_001", conf.MockUserID)
	assert.Equal(t, 256, conf.AnalyzeQueueSize)
	assert.Equal(t, 60, conf.AnalyzeTimeoutSec)
	assert.Equal(t, "0 5 * * *", conf.InsightCronSpec)
	assert.Equal(t, 3, conf.InsightMinEmotionEntries)
	assert.Equal(t, 1, conf.InsightMinGratitudeEntries)
	assert.Equal(t, 3, conf.TrackingMinEntries)

	assert.Equal(t, "guanwo:secret@tcp(db.internal:3306)/guanwo?charset=utf8mb4&parseTime=True&loc=Local", conf.GetDBConnString())
}
