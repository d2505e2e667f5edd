package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdhwiz/brickwatch/internal/stock"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Email.SMTPServer)
	assert.Equal(t, "brickwatch@localhost", cfg.Email.FromAddress)
	assert.Equal(t, 15*time.Second, cfg.Settings.CheckDelay)
	assert.Equal(t, 20*time.Second, cfg.Settings.PageWait)
	assert.Equal(t, 60*time.Second, cfg.Settings.Timeout)
	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Server.Enabled)
	assert.Equal(t, []string{"AVAILABLE", "PRE_ORDER", "BACKORDER"}, cfg.Notify.States)
	require.NoError(t, cfg.Validate())
}

func TestFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
email:
  recipient: ops@example.org
  smtp_server: mail.example.org
settings:
  check_delay: 5
  check_delay_max: 9
  page_wait: 2
notify:
  states: [AVAILABLE, SOLD_OUT]
server:
  enabled: true
  port: 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ops@example.org", cfg.Email.Recipient)
	assert.Equal(t, "mail.example.org", cfg.Email.SMTPServer)
	assert.Equal(t, 5*time.Second, cfg.Settings.CheckDelay)
	assert.Equal(t, 9*time.Second, cfg.Settings.CheckDelayMax)
	assert.Equal(t, 2*time.Second, cfg.Settings.PageWait)
	assert.Equal(t, 60*time.Second, cfg.Settings.Timeout) // default kept
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"AVAILABLE", "SOLD_OUT"}, cfg.Notify.States)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("email:\n  recipient: file@example.org\n"), 0o644))

	t.Setenv("EMAIL_RECIPIENT", "env@example.org")
	t.Setenv("CHECK_DELAY", "3s")
	t.Setenv("FETCH_TIMEOUT", "90")
	t.Setenv("CHECK_DELAY_MAX", "4s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env@example.org", cfg.Email.Recipient)
	assert.Equal(t, 3*time.Second, cfg.Settings.CheckDelay)
	assert.Equal(t, 90*time.Second, cfg.Settings.Timeout) // bare seconds accepted
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Settings.CheckDelayMax = cfg.Settings.CheckDelay - time.Second
	assert.Error(t, cfg.Validate())

	cfg, _ = Load("")
	cfg.Notify.States = []string{"NOT_A_STATE"}
	assert.Error(t, cfg.Validate())

	cfg, _ = Load("")
	cfg.Server.Enabled = true
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestNotifyStates(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Notify.States = []string{"available", " Pre_Order "}

	states, err := cfg.NotifyStates()
	require.NoError(t, err)
	assert.True(t, states[stock.StateAvailable])
	assert.True(t, states[stock.StatePreOrder])
	assert.False(t, states[stock.StateBackorder])
}
