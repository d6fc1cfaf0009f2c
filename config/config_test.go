package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dns-ledger-sim/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), false, nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Authority.URL)
	assert.Equal(t, 3*time.Second, cfg.Authority.SubmitDelay)
	assert.Zero(t, cfg.Authority.Timeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Simulation.VoteDelay)
	assert.Equal(t, 2*time.Second, cfg.Simulation.ResetDelay)
	assert.Equal(t, 0.9, cfg.Simulation.FadeStart)
	assert.Equal(t, 4.0, cfg.Screening.EntropyThreshold)
	assert.Empty(t, cfg.LevelDB.Path)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), true, nil)
	assert.Error(t, err)
}

func TestLoadFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
simulation:
  vote_delay: 250ms
screening:
  dnsbl_zone: ""
`), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("authority.url", "http://localhost:5000", "")
	flags.Int("server.port", 8080, "")
	require.NoError(t, flags.Parse([]string{"--authority.url=http://authority:5000"}))

	cfg, err := config.Load(path, true, flags)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port, "unset flag must not override the file")
	assert.Equal(t, "http://authority:5000", cfg.Authority.URL)
	assert.Equal(t, 250*time.Millisecond, cfg.Simulation.VoteDelay)
	assert.Empty(t, cfg.Screening.DNSBLZone)
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := config.Load("config.yaml", true, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Authority.Validators)
	assert.True(t, cfg.Render.Terminal)
}
