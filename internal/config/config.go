// Package config resolves process configuration from the environment and
// command line flags.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/younsl/idlereport/internal/models"
	"github.com/younsl/idlereport/pkg/scanner"
	"github.com/younsl/idlereport/pkg/utils"
)

// Configuration keys. Each key is read from the environment variable of the
// same name in upper case.
const (
	KeyEC2UnusedDays    = "ec2_unused_days"
	KeyEBSUnusedDays    = "ebs_unused_days"
	KeyBucketName       = "s3_bucket_name"
	KeyTopicARN         = "sns_topic_arn"
	KeyRegion           = "aws_region"
	KeyConcurrency      = "scan_concurrency"
	KeyProbeTimeout     = "probe_timeout"
	KeyExtraKinds       = "extra_kinds"
	KeyMetricsNamespace = "metrics_namespace"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
)

// Config is resolved once at startup and not modified afterwards
type Config struct {
	Thresholds       models.Thresholds
	BucketName       string
	TopicARN         string
	Region           string
	Concurrency      int
	ProbeTimeout     time.Duration
	ExtraKinds       []models.ResourceKind
	MetricsNamespace string
	LogLevel         string
	LogFormat        string
}

// ConfigurationError reports a configuration value that cannot be used
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", strings.ToUpper(e.Key), e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NewViper returns a viper instance with defaults set and environment
// lookup enabled. Callers may bind flags to the Key constants before Load.
func NewViper() *viper.Viper {
	v := viper.New()

	defaults := models.DefaultThresholds()
	v.SetDefault(KeyEC2UnusedDays, defaults.EC2UnusedDays)
	v.SetDefault(KeyEBSUnusedDays, defaults.EBSUnusedDays)
	v.SetDefault(KeyBucketName, "")
	v.SetDefault(KeyTopicARN, "")
	v.SetDefault(KeyRegion, utils.GetDefaultRegion())
	v.SetDefault(KeyConcurrency, scanner.DefaultConcurrency)
	v.SetDefault(KeyProbeTimeout, scanner.DefaultProbeTimeout.String())
	v.SetDefault(KeyExtraKinds, "")
	v.SetDefault(KeyMetricsNamespace, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")

	v.AutomaticEnv()

	return v
}

// Load reads every key from v and validates the result
func Load(v *viper.Viper) (*Config, error) {
	ec2Days, err := intValue(v, KeyEC2UnusedDays)
	if err != nil {
		return nil, err
	}
	ebsDays, err := intValue(v, KeyEBSUnusedDays)
	if err != nil {
		return nil, err
	}
	concurrency, err := intValue(v, KeyConcurrency)
	if err != nil {
		return nil, err
	}
	timeout, err := durationValue(v, KeyProbeTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Thresholds: models.Thresholds{
			EC2UnusedDays: ec2Days,
			EBSUnusedDays: ebsDays,
		},
		BucketName:       strings.TrimSpace(v.GetString(KeyBucketName)),
		TopicARN:         strings.TrimSpace(v.GetString(KeyTopicARN)),
		Region:           strings.TrimSpace(v.GetString(KeyRegion)),
		Concurrency:      concurrency,
		ProbeTimeout:     timeout,
		ExtraKinds:       ParseKinds(v.GetString(KeyExtraKinds)),
		MetricsNamespace: strings.TrimSpace(v.GetString(KeyMetricsNamespace)),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and returns the first problem found
func (c *Config) Validate() error {
	if c.Thresholds.EC2UnusedDays < 0 {
		return &ConfigurationError{Key: KeyEC2UnusedDays, Err: errors.New("must not be negative")}
	}
	if c.Thresholds.EBSUnusedDays < 0 {
		return &ConfigurationError{Key: KeyEBSUnusedDays, Err: errors.New("must not be negative")}
	}
	if c.Concurrency < 1 {
		return &ConfigurationError{Key: KeyConcurrency, Err: errors.New("must be at least 1")}
	}
	if c.ProbeTimeout <= 0 {
		return &ConfigurationError{Key: KeyProbeTimeout, Err: errors.New("must be positive")}
	}
	if c.Region == "" {
		return &ConfigurationError{Key: KeyRegion, Err: errors.New("must be set")}
	}
	if !utils.IsValidRegion(c.Region) {
		return &ConfigurationError{Key: KeyRegion, Err: fmt.Errorf("%q is not a valid region", c.Region)}
	}
	for _, k := range c.ExtraKinds {
		if !scanner.IsOptional(k) {
			return &ConfigurationError{Key: KeyExtraKinds, Err: fmt.Errorf("%q is not an optional resource kind", k)}
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return &ConfigurationError{Key: KeyLogLevel, Err: err}
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return &ConfigurationError{Key: KeyLogFormat, Err: fmt.Errorf("%q is not json or console", c.LogFormat)}
	}
	return nil
}

// StorageEnabled reports whether a storage destination is configured
func (c *Config) StorageEnabled() bool {
	return c.BucketName != ""
}

// NotificationEnabled reports whether a notification destination is configured
func (c *Config) NotificationEnabled() bool {
	return c.TopicARN != ""
}

// MetricsEnabled reports whether a metrics namespace is configured
func (c *Config) MetricsEnabled() bool {
	return c.MetricsNamespace != ""
}

// ParseKinds splits a comma separated kind list, dropping blanks
func ParseKinds(raw string) []models.ResourceKind {
	var kinds []models.ResourceKind
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kinds = append(kinds, models.ResourceKind(strings.ToLower(part)))
	}
	return kinds
}

// intValue parses key as a base 10 integer. viper's GetInt turns bad text
// into 0, which would silently change a threshold.
func intValue(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Err: fmt.Errorf("%q is not an integer", raw)}
	}
	return n, nil
}

// durationValue parses key as a Go duration, or as whole seconds
func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &ConfigurationError{Key: key, Err: fmt.Errorf("%q is not a duration", raw)}
	}
	return d, nil
}
