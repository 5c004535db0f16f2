package config

type Config interface {
	EnvConfig
	StoreConfig
	SessionConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIURL() string
	GetEnv() string
	GetLogLevel() string
}

type mainConfig struct {
	EnvVars
	Store
	Session
}

func New() Config {
	return mainConfig{}
}
