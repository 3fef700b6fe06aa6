package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/huh"

	"glissues/gitlab"
	"glissues/summarize"
)

const DefaultProvider = string(summarize.ProviderGroq)

// Config holds everything the CLI needs beyond its flags. Values come from
// the config file first, then environment variables on top; flags override
// both at the call site.
type Config struct {
	GitLabURL      string `json:"gitlab_url"      env:"GITLAB_URL"`
	GitLabToken    string `json:"gitlab_token"    env:"GITLAB_ACCESS_TOKEN"`
	GitLabTokenAlt string `json:"-"               env:"GITLAB_TOKEN"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	GroqAPIKey     string `json:"groq_api_key"    env:"GROQ_API_KEY"`
	OpenAIAPIKey   string `json:"openai_api_key"  env:"OPENAI_API_KEY"`
	GeminiAPIKey   string `json:"gemini_api_key"  env:"GEMINI_API_KEY"`
}

// APIKeyFor returns the configured key for the given LLM provider.
func (c *Config) APIKeyFor(provider summarize.Provider) string {
	switch provider {
	case summarize.ProviderOpenAI:
		return c.OpenAIAPIKey
	case summarize.ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.GroqAPIKey
	}
}

func configDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".glissues")
}

func configPath() string {
	return filepath.Join(configDir(), "config.json")
}

func Exists() bool {
	_, err := os.Stat(configPath())
	return err == nil
}

// Load merges the config file (if any) with environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if fileCfg, err := LoadFromFile(); err == nil {
		*cfg = *fileCfg
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.GitLabToken == "" {
		cfg.GitLabToken = cfg.GitLabTokenAlt
	}
	if cfg.GitLabURL == "" {
		cfg.GitLabURL = gitlab.DefaultBaseURL
	}
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	cfg.GitLabURL = strings.TrimRight(cfg.GitLabURL, "/")
	return cfg, nil
}

func LoadFromFile() (*Config, error) {
	data, err := os.ReadFile(configPath())
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	cfg.GitLabURL = strings.TrimRight(cfg.GitLabURL, "/")
	return &cfg, nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(configDir(), 0700); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(configPath(), data, 0600)
}

func providerOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Groq", string(summarize.ProviderGroq)),
		huh.NewOption("OpenAI", string(summarize.ProviderOpenAI)),
		huh.NewOption("Gemini", string(summarize.ProviderGemini)),
	}
}

// RunSetup walks through an interactive form and persists the result.
func RunSetup() (*Config, error) {
	var existing Config
	if cfg, err := LoadFromFile(); err == nil {
		existing = *cfg
	}
	if existing.GitLabURL == "" {
		existing.GitLabURL = gitlab.DefaultBaseURL
	}
	if existing.Provider == "" {
		existing.Provider = DefaultProvider
	}

	cfg := existing

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GitLab URL").
				Placeholder(gitlab.DefaultBaseURL).
				Value(&cfg.GitLabURL).
				Validate(func(s string) error {
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("URL must start with http:// or https://")
					}
					return nil
				}),
			huh.NewInput().
				Title("GitLab Access Token").
				Description("Optional; needed for private projects").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.GitLabToken),
		).Title("GitLab Connection"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default LLM Provider").
				Options(providerOptions()...).
				Value(&cfg.Provider),
			huh.NewInput().
				Title("Default Model").
				Description("Leave empty for the provider default").
				Value(&cfg.Model),
		).Title("Summarization"),

		huh.NewGroup(
			huh.NewInput().
				Title("Groq API Key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.GroqAPIKey),
			huh.NewInput().
				Title("OpenAI API Key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.OpenAIAPIKey),
			huh.NewInput().
				Title("Gemini API Key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.GeminiAPIKey),
		).Title("API Keys"),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	cfg.GitLabURL = strings.TrimRight(cfg.GitLabURL, "/")

	if err := Save(&cfg); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("\nConfig saved to %s\n", configPath())
	return &cfg, nil
}
