package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CLIENT_ID", "app-client")
	t.Setenv("AWS_REGION", "")
	t.Setenv("REGION", "")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultRegion, cfg.Region)
	assert.Equal(t, SelectLast, cfg.PoolSelection)
	assert.Equal(t, "app-client", cfg.ClientID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "dev", cfg.Environment)
	assert.False(t, cfg.Verbose)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CLIENT_ID", "app-client")
	t.Setenv("CLIENT_SECRET", "s3cr3t")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("REGION", "")
	t.Setenv("POOL_SELECTION", "NAME")
	t.Setenv("POOL_NAME", "customers")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, SelectByName, cfg.PoolSelection)
	assert.Equal(t, "customers", cfg.PoolName)
	assert.Equal(t, "s3cr3t", cfg.ClientSecret)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("CLIENT_ID", "app-client")
	t.Setenv("REGION", "eu-west-1")

	cfg, err := Load([]string{"-r", "ap-south-1", "-v", "--pool-id", "ap-south-1_xyz"})
	require.NoError(t, err)

	assert.Equal(t, "ap-south-1", cfg.Region)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "ap-south-1_xyz", cfg.PoolID)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		errorMsg string
	}{
		{
			name:     "missing client id",
			env:      map[string]string{"CLIENT_ID": ""},
			errorMsg: "client-id is required",
		},
		{
			name:     "unknown selection",
			env:      map[string]string{"CLIENT_ID": "c", "POOL_SELECTION": "random"},
			errorMsg: `unknown pool-selection "random"`,
		},
		{
			name:     "name selection without name",
			env:      map[string]string{"CLIENT_ID": "c", "POOL_NAME": ""},
			args:     []string{"--pool-selection", "name"},
			errorMsg: `pool-name is required with pool-selection "name"`,
		},
		{
			name:     "bad flag",
			env:      map[string]string{"CLIENT_ID": "c"},
			args:     []string{"--no-such-flag"},
			errorMsg: "failed to parse flags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POOL_SELECTION", "")
			t.Setenv("POOL_ID", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}
