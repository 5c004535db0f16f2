package config

import "time"

type SessionConfig interface {
	GetRefreshTimeout() time.Duration
	GetRequestTimeout() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetRefreshTimeout bounds a single refresh-token exchange
func (Session) GetRefreshTimeout() time.Duration {
	return durationEnv("REFRESH_TIMEOUT", 30*time.Second)
}

func (Session) GetRequestTimeout() time.Duration {
	return durationEnv("REQUEST_TIMEOUT", 60*time.Second)
}

func durationEnv(name string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(name, defaultValue.String()))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
