package config

import "sync"

type LogConfig struct {
	JSON  bool
	Debug bool
}

var (
	logConfig *LogConfig
	logOnce   sync.Once
)

func LoadLogConfig() *LogConfig {
	logOnce.Do(func() {
		logConfig = &LogConfig{
			JSON:  getEnvBool("LOG_JSON", false),
			Debug: getEnvBool("LOG_DEBUG", false),
		}
	})
	return logConfig
}
