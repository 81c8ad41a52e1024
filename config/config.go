package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	TokenSourceHeader = "header"
	TokenSourceBody   = "body"
)

// Credentials are the admin account used by the auth step.
type Credentials struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
	Context  string `env:"AUTH_CONTEXT" envDefault:"admin"`
	Platform string `env:"AUTH_PLATFORM" envDefault:"web"`
}

// OnePassword selects the 1Password CLI as the credential source.
type OnePassword struct {
	Enabled     bool   `env:"USE_1PASSWORD"`
	UsernameRef string `env:"OP_ADMIN_USERNAME_REF"`
	PasswordRef string `env:"OP_ADMIN_PASSWORD_REF"`
}

type Config struct {
	Environment        string `env:"ENVIRONMENT" envDefault:"development"`
	APIBaseURL         string `env:"API_BASE_URL" envDefault:"http://localhost:8087/api"`
	Credentials        Credentials
	OnePassword        OnePassword
	RequestTimeoutMS   int    `env:"REQUEST_TIMEOUT" envDefault:"30000"`
	Verbose            bool   `env:"VERBOSE"`
	RejectUnauthorized bool   `env:"REJECT_UNAUTHORIZED" envDefault:"true"`
	TokenSource        string `env:"AUTH_TOKEN_SOURCE" envDefault:"header"`
	TokenField         string `env:"AUTH_TOKEN_FIELD"`
	SearchPageSize     int    `env:"SEARCH_PAGE_SIZE" envDefault:"100"`
	PlanFile           string `env:"SEED_PLAN"`
	ActivitiesFile     string `env:"SEED_ACTIVITIES_FILE"`
	UsersFile          string `env:"SEED_USERS_FILE"`
	LogDir             string `env:"LOG_DIR" envDefault:"logs/seeder"`
}

var isTest bool

func init() {
	isTest = os.Getenv("GO_ENVIRONMENT") == "test"
	if !isTest {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}
}

// ReadSecret resolves a 1Password secret reference. Tests replace it.
var ReadSecret = func(reference string) (string, error) {
	out, err := exec.Command("op", "read", reference).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("failed to retrieve secret from 1Password: %w\nMake sure you're signed in with 'op signin'", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the environment once, validates it and resolves credentials
// from the selected source.
func Load() (Config, error) {
	cfg, err := LoadSettings()
	if err != nil {
		return cfg, err
	}
	if err := cfg.resolveCredentials(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadSettings is Load without credential resolution, for commands that
// never talk to the API.
func LoadSettings() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) resolveCredentials() error {
	if c.OnePassword.Enabled {
		if c.OnePassword.UsernameRef == "" || c.OnePassword.PasswordRef == "" {
			return errors.New("missing 1Password references. Please set:\n" +
				"  OP_ADMIN_USERNAME_REF=\"op://vault-name/item-name/username\"\n" +
				"  OP_ADMIN_PASSWORD_REF=\"op://vault-name/item-name/password\"")
		}
		username, err := ReadSecret(c.OnePassword.UsernameRef)
		if err != nil {
			return err
		}
		password, err := ReadSecret(c.OnePassword.PasswordRef)
		if err != nil {
			return err
		}
		c.Credentials.Username = username
		c.Credentials.Password = password
		return nil
	}

	if c.Credentials.Username == "" || c.Credentials.Password == "" {
		return errors.New("missing required credentials. Either:\n" +
			"1. Enable 1Password: Set USE_1PASSWORD=true and configure OP_* variables\n" +
			"2. Use .env file: Set ADMIN_USERNAME and ADMIN_PASSWORD")
	}
	return nil
}

// Validate checks the settings that have no safe fallback.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL))
	}
	if c.RequestTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %d", c.RequestTimeoutMS))
	}
	if c.SearchPageSize <= 0 {
		errs = append(errs, fmt.Errorf("SEARCH_PAGE_SIZE must be positive, got %d", c.SearchPageSize))
	}
	if c.TokenSource != TokenSourceHeader && c.TokenSource != TokenSourceBody {
		errs = append(errs, fmt.Errorf("AUTH_TOKEN_SOURCE must be %q or %q, got %q", TokenSourceHeader, TokenSourceBody, c.TokenSource))
	}
	return errors.Join(errs...)
}

// Timeout is the per-request timeout applied to every backend call.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// TokenFieldOrDefault is the header name or JSON path holding the bearer token.
func (c Config) TokenFieldOrDefault() string {
	if c.TokenField != "" {
		return c.TokenField
	}
	if c.TokenSource == TokenSourceBody {
		return "token"
	}
	return "Authorization"
}

// CredentialSource names where the admin credentials came from.
func (c Config) CredentialSource() string {
	if c.OnePassword.Enabled {
		return "1Password CLI"
	}
	return "environment variables"
}
