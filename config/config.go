package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 存储所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 数据库配置
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	// Redis配置
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// LLM API配置
	LLMAPIKey      string `mapstructure:"LLM_API_KEY"`
	LLMAPIEndpoint string `mapstructure:"LLM_API_ENDPOINT"`
	LLMModel       string `mapstructure:"LLM_MODEL"`

	// 阿里云配置（语音转写与内容安全）
	AliyunAccessKeyID     string `mapstructure:"ALIYUN_ACCESS_KEY_ID"`
	AliyunAccessKeySecret string `mapstructure:"ALIYUN_ACCESS_KEY_SECRET"`
	AliyunRegion          string `mapstructure:"ALIYUN_REGION"`
	AliyunASRAppKey       string `mapstructure:"ALIYUN_ASR_APP_KEY"`
	AliyunASREndpoint     string `mapstructure:"ALIYUN_ASR_ENDPOINT"`
	AliyunGreenEndpoint   string `mapstructure:"ALIYUN_GREEN_ENDPOINT"`

	// JWT配置
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// 开发环境mock用户，生产环境不生效
	MockUserID string `mapstructure:"MOCK_USER_ID"`

	// AI分析工作池配置
	AnalyzeWorkers    int `mapstructure:"ANALYZE_WORKERS"`
	AnalyzeQueueSize  int `mapstructure:"ANALYZE_QUEUE_SIZE"`
	AnalyzeTimeoutSec int `mapstructure:"ANALYZE_TIMEOUT_SEC"`

	// 洞察卡片生成配置
	InsightCronSpec            string `mapstructure:"INSIGHT_CRON_SPEC"`
	InsightMinEmotionEntries   int    `mapstructure:"INSIGHT_MIN_EMOTION_ENTRIES"`
	InsightMinGratitudeEntries int    `mapstructure:"INSIGHT_MIN_GRATITUDE_ENTRIES"`

	// 标签追踪配置
	TrackingMinEntries int `mapstructure:"TRACKING_MIN_ENTRIES"`
}

// LoadConfig 从环境变量或配置文件加载配置
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("LLM_API_ENDPOINT", "https://api.siliconflow.cn/v1")
	viper.SetDefault("LLM_MODEL", "moonshotai/Kimi-K2-Instruct")
	viper.SetDefault("ALIYUN_REGION", "cn-shanghai")
	viper.SetDefault("ALIYUN_ASR_ENDPOINT", "http://nls-gateway.cn-shanghai.aliyuncs.com")
	viper.SetDefault("ALIYUN_GREEN_ENDPOINT", "green-cip.cn-shanghai.aliyuncs.com")
	viper.SetDefault("MOCK_USER_ID", "mock_user_001")
	viper.SetDefault("ANALYZE_WORKERS", 4)
	viper.SetDefault("ANALYZE_QUEUE_SIZE", 256)
	viper.SetDefault("ANALYZE_TIMEOUT_SEC", 60)
	viper.SetDefault("INSIGHT_CRON_SPEC", "0 5 * * *")
	viper.SetDefault("INSIGHT_MIN_EMOTION_ENTRIES", 3)
	viper.SetDefault("INSIGHT_MIN_GRATITUDE_ENTRIES", 1)
	viper.SetDefault("TRACKING_MIN_ENTRIES", 3)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// 允许配置文件不存在，此时会从环境变量中读取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}

// GetDBConnString 返回数据库连接字符串
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString 返回Redis连接字符串
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
