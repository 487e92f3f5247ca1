package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration. Credentials are never stored
// here; they are entered interactively at sign-in.
type Config struct {
	Version int           `toml:"version"`
	Engage  EngageConfig  `toml:"engage"`
	Monitor MonitorConfig `toml:"monitor"`
	Browser BrowserConfig `toml:"browser"`
	GPT     GPTConfig     `toml:"gpt"`
	Google  GoogleConfig  `toml:"google"`
}

// EngageConfig controls the like/comment decision policy.
type EngageConfig struct {
	// CommentSource selects the comment generation backend: "gpt" or
	// "google". Anything else falls back to gpt.
	CommentSource string `toml:"comment_source"`
	MaxPosts      int    `toml:"max_posts"`
	// MinCommentLength is the minimum extracted content length before feed
	// monitoring will comment on a post. Warmup ignores it.
	MinCommentLength int `toml:"min_comment_length"`
}

type MonitorConfig struct {
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds"`
}

type BrowserConfig struct {
	Headless bool `toml:"headless"`
}

// GPTConfig configures the chat-completion comment backend.
type GPTConfig struct {
	APIKey       string `toml:"api_key"`
	Model        string `toml:"model"`
	StaticPrompt string `toml:"static_prompt"`
}

// GoogleConfig configures the Gemini comment backend.
type GoogleConfig struct {
	APIKey        string `toml:"api_key"`
	SelectedModel string `toml:"selected_model"`
	StaticPrompt  string `toml:"static_prompt"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Version: 1,
		Engage: EngageConfig{
			CommentSource:    "gpt",
			MaxPosts:         10,
			MinCommentLength: 100,
		},
		Monitor: MonitorConfig{
			RefreshIntervalSeconds: 60,
		},
		Browser: BrowserConfig{
			Headless: false,
		},
		GPT: GPTConfig{
			Model:        "gpt-3.5-turbo",
			StaticPrompt: "Write a short, insightful comment for this post:",
		},
		Google: GoogleConfig{
			SelectedModel: "gemini-1.5-flash",
			StaticPrompt:  "Write a short, positive comment for this post:",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory.
func ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "engagekit"), nil
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the directory for run artifacts such as the history
// database.
func DataDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "engagekit"), nil
}

// Load reads config from disk.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes config to disk. Persistence is an explicit side effect invoked
// by the owning caller, never by nested components.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
