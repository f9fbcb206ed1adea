package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
)

const (
	// DefaultPublicRegion is the only region serving the
	// ECR Public API.
	DefaultPublicRegion = "us-east-1"
	// DefaultMaxResults is the registry listing cap for a
	// single call.
	DefaultMaxResults = 1000
)

// Config holds the settings shared by all tools.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	GitLab   GitLabConfig   `yaml:"gitlab"`
	Logs     LogsConfig     `yaml:"logs"`
	HTTP     HTTPConfig     `yaml:"http"`
}

// RegistryConfig configures the container registry
// clients.
type RegistryConfig struct {
	// AccountID is the registry id owning the public
	// repositories.
	AccountID string `yaml:"accountId" envconfig:"REGISTRY_ACCOUNT_ID"`
	// PublicRegion is the region of the ECR Public API.
	PublicRegion string `yaml:"publicRegion" envconfig:"REGISTRY_PUBLIC_REGION"`
	// Region is used for private repositories.
	Region string `yaml:"region" envconfig:"AWS_REGION"`
	// MaxResults caps the single listing call.
	MaxResults int32 `yaml:"maxResults" envconfig:"REGISTRY_MAX_RESULTS"`
}

// GitLabConfig locates the producer repository.
type GitLabConfig struct {
	Host    string `yaml:"host" envconfig:"GITLAB_HOST"`
	Project string `yaml:"project" envconfig:"GITLAB_PROJECT"`
	Token   string `yaml:"-" envconfig:"GITLAB_TOKEN"`
}

// LogsConfig configures the log delivery check.
type LogsConfig struct {
	Region         string `yaml:"region" envconfig:"AWS_REGION"`
	Cluster        string `yaml:"cluster" envconfig:"TENANT_NAME"`
	Lines          int32  `yaml:"lines" envconfig:"LOG_LINES_TO_TEST"`
	GroupTemplate  string `yaml:"groupTemplate" envconfig:"LOG_GROUP_TEMPLATE"`
	StreamTemplate string `yaml:"streamTemplate" envconfig:"LOG_STREAM_TEMPLATE"`
}

// HTTPConfig configures the health check HTTP client.
type HTTPConfig struct {
	InsecureSkipVerify bool `yaml:"insecureSkipVerify" envconfig:"HTTP_INSECURE_SKIP_VERIFY"`
	RetryMax           int  `yaml:"retryMax" envconfig:"HTTP_RETRY_MAX"`
}

// Default returns the settings used when neither file nor
// environment says otherwise.
func Default() Config {
	return Config{
		Registry: RegistryConfig{
			PublicRegion: DefaultPublicRegion,
			Region:       "us-west-2",
			MaxResults:   DefaultMaxResults,
		},
		GitLab: GitLabConfig{
			Host: "https://gitlab.com",
		},
		Logs: LogsConfig{
			Region:         "us-west-2",
			Lines:          10,
			GroupTemplate:  "/aws/containerinsights/{cluster}/application",
			StreamTemplate: "{pod}_{namespace}_{container}.cw_out",
		},
		HTTP: HTTPConfig{
			InsecureSkipVerify: true,
			RetryMax:           4,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path
// (skipped when path is empty) and the environment, then
// validates it.
func Load(path string) (*Config, error) {
	const errCtx = "loading config"

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf(
				"%s: decoding %s: %w", errCtx, path, err,
			)
		}
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf(
			"%s: reading environment: %w", errCtx, err,
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &cfg, nil
}

// Validate rejects settings the tools cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Registry.MaxResults < 1 ||
		c.Registry.MaxResults > DefaultMaxResults {
		errs = append(errs, fmt.Errorf(
			"registry.maxResults must be within 1..%d, got %d",
			DefaultMaxResults, c.Registry.MaxResults,
		))
	}

	if c.Registry.PublicRegion == "" {
		errs = append(errs, errors.New(
			"registry.publicRegion must be set",
		))
	}

	if c.Logs.Lines < 1 {
		errs = append(errs, fmt.Errorf(
			"logs.lines must be positive, got %d", c.Logs.Lines,
		))
	}

	if c.HTTP.RetryMax < 0 {
		errs = append(errs, fmt.Errorf(
			"http.retryMax must not be negative, got %d",
			c.HTTP.RetryMax,
		))
	}

	return errors.Join(errs...)
}
