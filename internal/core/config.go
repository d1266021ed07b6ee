package core

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/datacentered/curator/pkg/models"
)

// LoadConfig reads .curatorrc from basePath, falling back to defaults when no
// config file exists. Any other read error is surfaced.
func LoadConfig(basePath string) (models.Config, error) {
	v := viper.New()
	v.SetConfigName(".curatorrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(basePath)

	v.SetDefault("llm_provider", "openai")
	v.SetDefault("llm_model", "gpt-4o-mini")
	v.SetDefault("llm_base_url", "https://api.openai.com/v1")
	v.SetDefault("llm_api_key_env", "OPENAI_API_KEY")
	v.SetDefault("confidence_threshold", 0.7)
	v.SetDefault("fetch_timeout_seconds", 30)
	v.SetDefault("poll_limit", 50)
	v.SetDefault("poll_source_command", "bookmarks")
	v.SetDefault("enrichment_enabled", true)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return models.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := models.Config{
		LLMProvider:         v.GetString("llm_provider"),
		LLMModel:            v.GetString("llm_model"),
		LLMBaseURL:          v.GetString("llm_base_url"),
		LLMAPIKeyEnv:        v.GetString("llm_api_key_env"),
		ConfidenceThreshold: v.GetFloat64("confidence_threshold"),
		FetchTimeoutSeconds: v.GetInt("fetch_timeout_seconds"),
		PollLimit:           v.GetInt("poll_limit"),
		PollSourceCommand:   v.GetString("poll_source_command"),
		EnrichmentEnabled:   v.GetBool("enrichment_enabled"),
	}

	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return models.Config{}, fmt.Errorf("confidence_threshold %v out of range [0, 1]", cfg.ConfidenceThreshold)
	}
	return cfg, nil
}
