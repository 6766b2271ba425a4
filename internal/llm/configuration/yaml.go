package configuration

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration decodes YAML duration values in either time.ParseDuration form
// ("45s", "5m") or integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var ns int64
	if err := value.Decode(&ns); err == nil {
		*d = Duration(ns)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// The config structs decode through shadow structs seeded with the current
// field values, so a partial YAML file overrides only the keys it mentions.

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		HTTPTimeout    Duration                  `yaml:"http_timeout"`
		Providers      map[string]ProviderConfig `yaml:"providers"`
		Retry          RetryConfig               `yaml:"retry"`
		CircuitBreaker CircuitBreakerConfig      `yaml:"circuit_breaker"`
		RateLimit      RateLimitConfig           `yaml:"rate_limit"`
		Cache          CacheConfig               `yaml:"cache"`
		Pricing        PricingConfig             `yaml:"pricing"`
	}{
		HTTPTimeout:    Duration(c.HTTPTimeout),
		Providers:      c.Providers,
		Retry:          c.Retry,
		CircuitBreaker: c.CircuitBreaker,
		RateLimit:      c.RateLimit,
		Cache:          c.Cache,
		Pricing:        c.Pricing,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.HTTPTimeout = time.Duration(raw.HTTPTimeout)
	c.Providers = raw.Providers
	c.Retry = raw.Retry
	c.CircuitBreaker = raw.CircuitBreaker
	c.RateLimit = raw.RateLimit
	c.Cache = raw.Cache
	c.Pricing = raw.Pricing
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *ProviderConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		Endpoint  string            `yaml:"endpoint"`
		APIKeyEnv string            `yaml:"api_key_env"`
		Timeout   Duration          `yaml:"timeout"`
		Headers   map[string]string `yaml:"headers"`
	}{
		Endpoint:  p.Endpoint,
		APIKeyEnv: p.APIKeyEnv,
		Timeout:   Duration(p.Timeout),
		Headers:   p.Headers,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	p.Endpoint = raw.Endpoint
	p.APIKeyEnv = raw.APIKeyEnv
	p.Timeout = time.Duration(raw.Timeout)
	p.Headers = raw.Headers
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *RetryConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		MaxAttempts     int      `yaml:"max_attempts"`
		InitialInterval Duration `yaml:"initial_interval"`
		MaxInterval     Duration `yaml:"max_interval"`
		Multiplier      float64  `yaml:"multiplier"`
		UseJitter       bool     `yaml:"use_jitter"`
	}{
		MaxAttempts:     r.MaxAttempts,
		InitialInterval: Duration(r.InitialInterval),
		MaxInterval:     Duration(r.MaxInterval),
		Multiplier:      r.Multiplier,
		UseJitter:       r.UseJitter,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	r.MaxAttempts = raw.MaxAttempts
	r.InitialInterval = time.Duration(raw.InitialInterval)
	r.MaxInterval = time.Duration(raw.MaxInterval)
	r.Multiplier = raw.Multiplier
	r.UseJitter = raw.UseJitter
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CircuitBreakerConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		FailureThreshold int      `yaml:"failure_threshold"`
		SuccessThreshold int      `yaml:"success_threshold"`
		OpenTimeout      Duration `yaml:"open_timeout"`
	}{
		FailureThreshold: c.FailureThreshold,
		SuccessThreshold: c.SuccessThreshold,
		OpenTimeout:      Duration(c.OpenTimeout),
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.FailureThreshold = raw.FailureThreshold
	c.SuccessThreshold = raw.SuccessThreshold
	c.OpenTimeout = time.Duration(raw.OpenTimeout)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CacheConfig) UnmarshalYAML(value *yaml.Node) error {
	raw := struct {
		Enabled   bool     `yaml:"enabled"`
		TTL       Duration `yaml:"ttl"`
		RedisAddr string   `yaml:"redis_addr"`
		RedisDB   int      `yaml:"redis_db"`
	}{
		Enabled:   c.Enabled,
		TTL:       Duration(c.TTL),
		RedisAddr: c.RedisAddr,
		RedisDB:   c.RedisDB,
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	c.Enabled = raw.Enabled
	c.TTL = time.Duration(raw.TTL)
	c.RedisAddr = raw.RedisAddr
	c.RedisDB = raw.RedisDB
	return nil
}
