package cmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/GoCodeAlone/verdant/cmd/verdant/cmd"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Verdant Agriculture")
	for _, sub := range []string{"serve", "routes", "config", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, cmd.PrintVersion()+"\n", out)
	assert.Contains(t, out, "verdant vdev")
}

func TestRoutesCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "PATTERN")
	assert.Regexp(t, `/projects/\{id\}\s+project\s+Project`, out)
	assert.Regexp(t, `/contact\s+contact\s+Contact`, out)
	assert.Contains(t, out, "not-found")
}

func TestConfigSampleCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "config", "sample")
	require.NoError(t, err)

	var sample map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &sample))
	for _, section := range []string{"webserver", "sitemux", "contentwatch", "sessions", "site", "metrics"} {
		assert.Contains(t, sample, section)
	}
	assert.Equal(t, "verdant_session", sample["sessions"]["cookie_name"])
	assert.Equal(t, "/metrics", sample["metrics"]["path"])
}

func TestConfigSampleCommand_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdant.toml")
	out, err := execute(t, context.Background(), "config", "sample", "--format", "toml", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[sessions]")
}

func TestConfigSampleCommand_UnknownFormat(t *testing.T) {
	_, err := execute(t, context.Background(), "config", "sample", "--format", "ini")
	assert.Error(t, err)
}

func TestServeCommand_StopsWithContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verdant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("webserver:\n  host: 127.0.0.1\n  port: 0\n"), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	out, err := execute(t, ctx, "serve", "--config", path, "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"msg":"Shutting down"`)
}

func TestServeCommand_RejectsBadFlags(t *testing.T) {
	_, err := execute(t, context.Background(), "serve", "--log-format", "xml")
	assert.ErrorIs(t, err, cmd.ErrUnknownLogFormat)

	_, err = execute(t, context.Background(), "serve", "--log-level", "loud")
	assert.ErrorIs(t, err, cmd.ErrUnknownLogLevel)

	_, err = execute(t, context.Background(), "serve", "--config", "verdant.ini")
	assert.ErrorIs(t, err, cmd.ErrUnknownConfigFormat)
}
