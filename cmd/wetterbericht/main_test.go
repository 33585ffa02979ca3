package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/wetterbericht/internal/app"
	"github.com/hyperifyio/wetterbericht/internal/region"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"WETTER_OUTPUT", "WETTER_STATE", "WETTER_KEYFILE", "GOOGLE_APPLICATION_CREDENTIALS",
		"WETTER_BASE_URL", "WETTER_TIMEOUT", "WETTER_ENGINE", "WETTER_DRY_RUN", "WETTER_QUIET",
	} {
		t.Setenv(k, "")
	}
}

func feeds(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, "<pre>\nHeiter bis wolkig, Maxima 21 Grad.\n</pre>")
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestExecute_DryRunPrintsSSML(t *testing.T) {
	isolateEnv(t)
	srv, hits := feeds(t)
	var out bytes.Buffer
	code := execute([]string{"--dry-run", "--base-url", srv.URL, "-s", "Hessen", "--env-file", ""}, &out)
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out.String(), "<speak>\r\n"))
	assert.Contains(t, out.String(), "Höchsttemperaturen 21 Grad.")
	assert.EqualValues(t, 3, atomic.LoadInt32(hits))
}

func TestExecute_MissingKeyFileExitsBeforeNetwork(t *testing.T) {
	isolateEnv(t)
	srv, hits := feeds(t)
	missing := filepath.Join(t.TempDir(), "key.json")
	code := execute([]string{"-k", missing, "--base-url", srv.URL, "--env-file", ""}, &bytes.Buffer{})
	assert.Equal(t, 2, code)
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestExecute_UnknownStateIsConfigError(t *testing.T) {
	isolateEnv(t)
	code := execute([]string{"--dry-run", "-s", "Atlantis", "--env-file", ""}, &bytes.Buffer{})
	assert.Equal(t, 2, code)
}

func TestExecute_FetchFailureExitsOne(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	code := execute([]string{"--dry-run", "--base-url", srv.URL, "--env-file", ""}, &bytes.Buffer{})
	assert.Equal(t, 1, code)
}

func TestExecute_Version(t *testing.T) {
	var out bytes.Buffer
	require.Equal(t, 0, execute([]string{"version"}, &out))
	assert.Contains(t, out.String(), "wetterbericht "+app.BuildVersion)
}

func TestLoadConfig_Precedence(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "wetter.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("state: Bremen\noutput: file.mp3\nfeed:\n  timeout: 7s\n"), 0o600))
	t.Setenv("WETTER_OUTPUT", "env.mp3")

	var o options
	fs := pflag.NewFlagSet("wetterbericht", pflag.ContinueOnError)
	bindFlags(fs, &o)
	require.NoError(t, fs.Parse([]string{"--config", cfgPath, "--dry-run", "--parallel", "--env-file", ""}))
	cfg, err := loadConfig(fs, o)
	require.NoError(t, err)
	assert.Equal(t, "Bremen", cfg.State, "file beats default")
	assert.Equal(t, "env.mp3", cfg.OutputPath, "env beats file")
	assert.True(t, cfg.Parallel, "flag applied")
	assert.Equal(t, "7s", cfg.Timeout.String(), "unset flag keeps file value")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(fmt.Errorf("x: %w", app.ErrKeyFileNotFound)))
	assert.Equal(t, 2, exitCode(app.ErrInvalidConfig))
	assert.Equal(t, 1, exitCode(region.ErrUnsupportedRegion))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}
