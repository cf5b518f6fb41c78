package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/hyunsol/techtalk/internal/blog"
	"github.com/hyunsol/techtalk/internal/digest"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	CORS      CORSConfig        `yaml:"cors"`
	Passwords PasswordsConfig   `yaml:"passwords"`
	AI        AIConfig          `yaml:"ai"`
	Digest    DigestConfig      `yaml:"digest"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Passwords.Validate(); err != nil {
		return err
	}
	return c.Digest.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// PasswordsConfig holds the exact lengths required of post and comment
// passwords.
type PasswordsConfig struct {
	PostLength    int `yaml:"post_length"`
	CommentLength int `yaml:"comment_length"`
}

// Validate validates the password policy.
func (c *PasswordsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PostLength, validation.Required, validation.Min(4), validation.Max(64)),
		validation.Field(&c.CommentLength, validation.Required, validation.Min(4), validation.Max(64)),
	)
}

// Policy converts the section into the domain policy.
func (c *PasswordsConfig) Policy() blog.PasswordPolicy {
	return blog.PasswordPolicy{PostLength: c.PostLength, CommentLength: c.CommentLength}
}

// AIConfig holds the OpenAI-compatible completion settings. An empty
// APIKey disables the analyze endpoints.
type AIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Enabled reports whether the AI assists are configured.
func (c *AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// DigestConfig holds the weekly digest mail settings. Enabled set to
// false keeps the scheduler off and the manual trigger unconfigured.
type DigestConfig struct {
	Enabled    bool     `yaml:"enabled"`
	Hour       int      `yaml:"hour"`
	Timezone   string   `yaml:"timezone"`
	AdminToken string   `yaml:"admin_token"`
	SMTPHost   string   `yaml:"smtp_host"`
	SMTPPort   int      `yaml:"smtp_port"`
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	From       string   `yaml:"from"`
	To         []string `yaml:"to"`
}

// Validate validates the digest configuration.
func (c *DigestConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Hour, validation.Min(0), validation.Max(23)),
		validation.Field(&c.SMTPHost, validation.Required),
		validation.Field(&c.SMTPPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.From, validation.Required),
		validation.Field(&c.To, validation.Required),
	); err != nil {
		return err
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("digest: invalid timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// Location resolves the configured timezone, defaulting to local time.
func (c *DigestConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SMTP converts the section into relay settings.
func (c *DigestConfig) SMTP() digest.SMTPConfig {
	return digest.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.Username,
		Password: c.Password,
		From:     c.From,
		To:       c.To,
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./techtalk.db",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Passwords: PasswordsConfig{
			PostLength:    6,
			CommentLength: 4,
		},
		Digest: DigestConfig{
			Hour: 9,
		},
	}
}
