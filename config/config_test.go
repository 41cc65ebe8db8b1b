package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
database:
  host: localhost
  user: chathub
  password: secret
  dbname: chathub
  port: "5432"
  sslmode: disable
chat:
  api_key: test-key
  default_model: gemini-2.0-flash
  models:
    - gemini-2.0-flash
    - gemini-1.5-pro
auth:
  secret: jwt-secret
server:
  port: 3000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	require.NoError(t, LoadConfig(writeConfig(t, validYAML)))

	assert.Equal(t, "host=localhost user=chathub password=secret dbname=chathub port=5432 sslmode=disable", GlobalConfig.DSN())
	assert.Equal(t, "gemini-2.0-flash", GlobalConfig.Chat.DefaultModel)
	assert.Len(t, GlobalConfig.Chat.Models, 2)
	assert.Equal(t, int32(2048), GlobalConfig.Chat.MaxOutputTokens, "defaults when omitted")
	assert.Equal(t, 24, GlobalConfig.Auth.ExpHour, "defaults when omitted")
}

func TestLoadConfigMissingFields(t *testing.T) {
	err := LoadConfig(writeConfig(t, "server:\n  port: 3000\n"))
	require.Error(t, err)
}

func TestLoadConfigBadPort(t *testing.T) {
	bad := strings.Replace(validYAML, "port: 3000", "port: 70000", 1)
	err := LoadConfig(writeConfig(t, bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoadConfigMissingFile(t *testing.T) {
	assert.Error(t, LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")))
}
