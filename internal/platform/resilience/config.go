package resilience

import "time"

// RetryConfig bounds Retry. MaxRetries counts attempts after the first one.
type RetryConfig struct {
	MaxRetries int
	Delay      time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		Delay:      200 * time.Millisecond,
	}
}

// NormalizeRetryConfig clamps negative values to zero, which disables retries or the delay.
func NormalizeRetryConfig(cfg RetryConfig) RetryConfig {
	cfg.MaxRetries = max(cfg.MaxRetries, 0)
	cfg.Delay = max(cfg.Delay, 0)
	return cfg
}

// CircuitBreakerConfig configures NewCircuitBreakerFromConfig. A disabled
// config yields a nil breaker, which passes every call through.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

// NormalizeCircuitBreakerConfig fills non-positive limits from the defaults.
func NormalizeCircuitBreakerConfig(cfg CircuitBreakerConfig) CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaults.OpenTimeout
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return cfg
}
