// Package config loads the gateway configuration from flags and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultRegion is used when neither a flag nor the environment names a region.
const DefaultRegion = "us-east-1"

// Pool selection policies.
const (
	SelectLast   = "last"
	SelectFirst  = "first"
	SelectSingle = "single"
	SelectByName = "name"
)

// Config is the process-wide configuration, built once at start.
type Config struct {
	Region        string
	Verbose       bool
	PoolID        string
	PoolName      string
	PoolSelection string
	ClientID      string
	ClientSecret  string
	LogLevel      string
	LogFormat     string
	Environment   string
}

// Load reads flags from args and overlays the environment.
// Flags win over environment variables.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("identity-gateway", pflag.ContinueOnError)
	flags.StringP("region", "r", "", "The AWS Region")
	flags.BoolP("verbose", "v", false, "Whether to display additional information")
	flags.String("pool-id", "", "Use this user pool id instead of listing pools")
	flags.String("pool-name", "", "User pool name, used with --pool-selection=name")
	flags.String("pool-selection", SelectLast, "Pool selection policy: last, first, single or name")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "json")
	v.SetDefault("environment", "dev")
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg := &Config{
		Region:        firstNonEmpty(v.GetString("region"), v.GetString("aws-region"), DefaultRegion),
		Verbose:       v.GetBool("verbose"),
		PoolID:        v.GetString("pool-id"),
		PoolName:      v.GetString("pool-name"),
		PoolSelection: strings.ToLower(v.GetString("pool-selection")),
		ClientID:      v.GetString("client-id"),
		ClientSecret:  v.GetString("client-secret"),
		LogLevel:      v.GetString("log-level"),
		LogFormat:     v.GetString("log-format"),
		Environment:   v.GetString("environment"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	switch c.PoolSelection {
	case SelectLast, SelectFirst, SelectSingle:
	case SelectByName:
		if c.PoolName == "" && c.PoolID == "" {
			return fmt.Errorf("pool-name is required with pool-selection %q", SelectByName)
		}
	default:
		return fmt.Errorf("unknown pool-selection %q", c.PoolSelection)
	}
	if c.ClientID == "" {
		return fmt.Errorf("client-id is required")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
