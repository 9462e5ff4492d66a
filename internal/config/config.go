package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultAudioBucket = "audio-files"
	defaultCoverBucket = "cover-art"
)

type Config struct {
	// Supabase backend (required)
	Supabase SupabaseConfig `koanf:"supabase"`

	// Storage buckets
	AudioBucket    string `koanf:"audio_bucket"`
	CoverArtBucket string `koanf:"cover_art_bucket"`

	// DownloadFolder is where 'nano download' writes files
	// (empty means cwd)
	DownloadFolder string `koanf:"download_folder"`
}

// SupabaseConfig holds the hosted backend connection settings.
type SupabaseConfig struct {
	URL     string `koanf:"url"`      // e.g., "https://xyz.supabase.co"
	AnonKey string `koanf:"anon_key"` // project anon/public API key
	Email   string `koanf:"email"`
	// Password may be left empty; the app prompts for it at startup.
	Password string `koanf:"password"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		AudioBucket:    defaultAudioBucket,
		CoverArtBucket: defaultCoverBucket,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Normalize Supabase URL (remove trailing slash)
	cfg.Supabase.URL = strings.TrimSuffix(cfg.Supabase.URL, "/")

	// Expand ~ in download_folder
	if cfg.DownloadFolder != "" {
		cfg.DownloadFolder = expandPath(cfg.DownloadFolder)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/nano/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "nano", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasBackend returns true if the Supabase connection is configured.
func (c *Config) HasBackend() bool {
	return c.Supabase.URL != "" && c.Supabase.AnonKey != ""
}

// HasCredentials returns true if a sign-in can run without prompting.
func (c *Config) HasCredentials() bool {
	return c.Supabase.Email != "" && c.Supabase.Password != ""
}
