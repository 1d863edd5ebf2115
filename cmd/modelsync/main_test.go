package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/germanamz/modelsync/pkg/discovery"
	"github.com/germanamz/modelsync/pkg/document"
	"github.com/germanamz/modelsync/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func readVersion(t *testing.T, path string) any {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	return raw["version"]
}

func TestRun_NoKeysWritesDocument(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		envFile: filepath.Join(dir, "missing.env"),
		output:  filepath.Join(dir, "models.json"),
	}

	var stdout, stderr bytes.Buffer
	out := run(context.Background(), opts, &stdout, &stderr, noEnv)

	require.Equal(t, engine.Written, out.Status)
	assert.InDelta(t, 1, readVersion(t, opts.output), 0)
	assert.Contains(t, stdout.String(), "models.json written, counts: groq=2 gemini=2")
	assert.Contains(t, stdout.String(), "no api key configured")
	assert.Empty(t, stderr.String())
}

func TestRun_MissingConfigWritesFallback(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		configPath: filepath.Join(dir, "nope.yaml"),
		envFile:    filepath.Join(dir, "missing.env"),
		output:     filepath.Join(dir, "models.json"),
	}

	var stdout, stderr bytes.Buffer
	out := run(context.Background(), opts, &stdout, &stderr, noEnv)

	require.Equal(t, engine.Fallback, out.Status)
	assert.Equal(t, "fallback", readVersion(t, opts.output))
	assert.Contains(t, stdout.String(), "FATAL")
}

func TestRun_ConfigAndDotEnv(t *testing.T) {
	// Keys must be unset for godotenv to fill them; t.Setenv restores them.
	for _, k := range []string{engine.GroqKeyEnv, engine.GeminiKeyEnv} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gsk-dotenv", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"llama-3.3-70b-versatile"},{"id":"whisper-large-v3"}]}`))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	opts := options{
		configPath: writeFile(t, dir, "modelsync.yaml", `
providers:
  groq:
    base_url: `+srv.URL+`
    deny: [whisper-large-v3]
`),
		envFile: writeFile(t, dir, ".env", "GROQ_API_KEY=gsk-dotenv\n"),
		output:  filepath.Join(dir, "models.json"),
		summary: true,
	}

	var stdout, stderr bytes.Buffer
	out := run(context.Background(), opts, &stdout, &stderr, os.Getenv)

	require.Equal(t, engine.Written, out.Status)

	groq, ok := out.Document.Providers.Get(document.Groq)
	require.True(t, ok)
	assert.Equal(t, []string{"llama-3.3-70b-versatile"}, groq.Prefer)
	assert.Equal(t, discovery.OK, out.Reports[0].Status)

	assert.Contains(t, stdout.String(), "PROVIDER")
	assert.Contains(t, stdout.String(), "live")
}

func TestRun_DryRunKeepsStdoutClean(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		envFile: filepath.Join(dir, "missing.env"),
		output:  filepath.Join(dir, "models.json"),
		dryRun:  true,
	}

	var stdout, stderr bytes.Buffer
	out := run(context.Background(), opts, &stdout, &stderr, noEnv)

	require.Equal(t, engine.Written, out.Status)
	assert.NoFileExists(t, opts.output)

	doc, err := document.Decode(stdout.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version.Number())
	assert.Contains(t, stderr.String(), "rendered (dry run)")
}

func TestApplyFlags(t *testing.T) {
	cfg := engine.DefaultConfig()
	applyFlags(&cfg, options{output: "x.json", diff: true, dryRun: true})

	assert.Equal(t, "x.json", cfg.Output)
	assert.True(t, cfg.Diff)
	assert.True(t, cfg.DryRun)

	cfg = engine.DefaultConfig()
	applyFlags(&cfg, options{})
	assert.Equal(t, engine.DefaultOutput, cfg.Output)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	assert.Empty(t, resolveConfigPath(""))

	require.NoError(t, os.WriteFile(defaultConfigFile, []byte("{}"), 0o600))
	assert.Equal(t, defaultConfigFile, resolveConfigPath(""))
}
