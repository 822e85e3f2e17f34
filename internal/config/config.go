// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	Service       ServiceConfig
	STT           STTConfig
	LLM           LLMConfig
	Pipeline      PipelineConfig
	Upload        UploadConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds service identity and listener configuration.
type ServiceConfig struct {
	Principal   string
	HTTPPort    string
	MetricsPort string
}

// STTConfig holds speech-to-text provider configuration.
type STTConfig struct {
	Provider     string // mock, whisper, google
	BaseURL      string
	APIKey       string
	Model        string
	LanguageCode string
	SampleRateHz int
	Encoding     string
}

// LLMConfig holds completion backend configuration.
type LLMConfig struct {
	Provider    string // mock, ollama, openai
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	TopK        int
	TopP        float64
	MaxTokens   int
}

// PipelineConfig holds processing pipeline configuration.
type PipelineConfig struct {
	Workers           int
	AttributeSpeakers bool
	RetryTranscribe   bool
}

// UploadConfig holds audio upload validation limits.
type UploadConfig struct {
	MaxBytes          int64
	MinBytes          int64
	AllowedExtensions []string
	RateLimitPerMin   int
}

// KafkaConfig holds Kafka event publishing configuration.
type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	TopicTranscripts string
	TopicRecords     string
	Principal        string
}

// ObservabilityConfig holds logging configuration.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. A .env file in the working directory is loaded first
// when present; real environment variables win over file values.
func Load() *Config {
	_ = godotenv.Load()

	servicePrincipal := envOrDefault("SERVICE_PRINCIPAL", "svc-medical-conversation")

	return &Config{
		Service: ServiceConfig{
			Principal:   servicePrincipal,
			HTTPPort:    envOrDefault("HTTP_PORT", "8000"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		STT: STTConfig{
			Provider:     envOrDefault("STT_PROVIDER", "mock"),
			BaseURL:      envOrDefault("STT_BASE_URL", ""),
			APIKey:       envOrDefault("STT_API_KEY", ""),
			Model:        envOrDefault("STT_MODEL", "whisper-1"),
			LanguageCode: envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz: envOrDefaultInt("STT_SAMPLE_RATE_HZ", 16000),
			Encoding:     envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
		},
		LLM: LLMConfig{
			Provider:    envOrDefault("LLM_PROVIDER", "ollama"),
			BaseURL:     envOrDefault("LLM_BASE_URL", "http://localhost:11434"),
			APIKey:      envOrDefault("LLM_API_KEY", ""),
			Model:       envOrDefault("LLM_MODEL", "llama3"),
			Temperature: envOrDefaultFloat("LLM_TEMPERATURE", 0.1),
			TopK:        envOrDefaultInt("LLM_TOP_K", 40),
			TopP:        envOrDefaultFloat("LLM_TOP_P", 0.9),
			MaxTokens:   envOrDefaultInt("LLM_MAX_TOKENS", 3000),
		},
		Pipeline: PipelineConfig{
			Workers:           envOrDefaultInt("PIPELINE_WORKERS", 2),
			AttributeSpeakers: envOrDefaultBool("PIPELINE_ATTRIBUTE_SPEAKERS", true),
			RetryTranscribe:   envOrDefaultBool("PIPELINE_RETRY_TRANSCRIBE", true),
		},
		Upload: UploadConfig{
			MaxBytes:          envOrDefaultInt64("UPLOAD_MAX_BYTES", 50*1024*1024),
			MinBytes:          envOrDefaultInt64("UPLOAD_MIN_BYTES", 1000),
			AllowedExtensions: envOrDefaultList("UPLOAD_ALLOWED_EXTENSIONS", []string{".mp3", ".wav", ".m4a", ".ogg", ".flac", ".webm"}),
			RateLimitPerMin:   envOrDefaultInt("UPLOAD_RATE_LIMIT_PER_MIN", 10),
		},
		Kafka: KafkaConfig{
			Enabled:          envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:          envOrDefaultList("KAFKA_BROKERS", nil),
			TopicTranscripts: envOrDefault("KAFKA_TOPIC_TRANSCRIPTS", "consult.transcripts"),
			TopicRecords:     envOrDefault("KAFKA_TOPIC_RECORDS", "consult.records"),
			Principal:        envOrDefault("KAFKA_PRINCIPAL", servicePrincipal),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

// envOrDefaultList parses a comma-separated list, trimming whitespace
// around each element.
func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
