package model

import "time"

// Config is the complete claimcheck configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Judge        JudgeConfig        `yaml:"judge" mapstructure:"judge"`
	Extract      ExtractConfig      `yaml:"extract" mapstructure:"extract"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`               // 0 disables
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"` // Check robots.txt before fetching
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// JudgeConfig controls the verdict request
type JudgeConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // openai, ollama, anthropic
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"-" mapstructure:"api_key"` // Never rendered
	BaseURL     string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxEvidence int           `yaml:"max_evidence_chars" mapstructure:"max_evidence_chars"` // Evidence ceiling in characters
}

// ExtractConfig controls file admission and extraction backends
type ExtractConfig struct {
	MaxFileBytes      int64    `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
	AllowedTypes      []string `yaml:"allowed_types" mapstructure:"allowed_types"`
	AllowedExtensions []string `yaml:"allowed_extensions" mapstructure:"allowed_extensions"`
	PDFToText         string   `yaml:"pdftotext" mapstructure:"pdftotext"` // Binary names; empty disables the backend
	Antiword          string   `yaml:"antiword" mapstructure:"antiword"`
	Tesseract         string   `yaml:"tesseract" mapstructure:"tesseract"`
	OCRLanguage       string   `yaml:"ocr_language" mapstructure:"ocr_language"`
}

// CacheConfig controls the in-memory fetch cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitingConfig controls per-domain fetch pacing
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" mapstructure:"json"`
}

// Upload and evidence limits
const (
	DefaultMaxFileBytes     = 10 << 20
	DefaultMaxEvidenceChars = 100_000
)

// DefaultAllowedTypes are the admissible declared media types
func DefaultAllowedTypes() []string {
	return []string{
		"text/plain",
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"image/jpeg",
		"image/png",
		"image/gif",
	}
}

// DefaultAllowedExtensions are the admissible file extensions
func DefaultAllowedExtensions() []string {
	return []string{".txt", ".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png", ".gif"}
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "claimcheck/0.1 (+https://github.com/ppiankov/claimcheck)",
			MaxBodyBytes: 5_000_000,
		},
		Judge: JudgeConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     60 * time.Second,
			Temperature: 0.3,
			MaxTokens:   1000,
			MaxEvidence: DefaultMaxEvidenceChars,
		},
		Extract: ExtractConfig{
			MaxFileBytes:      DefaultMaxFileBytes,
			AllowedTypes:      DefaultAllowedTypes(),
			AllowedExtensions: DefaultAllowedExtensions(),
			PDFToText:         "pdftotext",
			Antiword:          "antiword",
			Tesseract:         "tesseract",
			OCRLanguage:       "eng",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
	}
}
