package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/lox/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestRunSourcePrintsAndReturnsOKOnSuccess(t *testing.T) {
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	interp := persistentInterpreter(config.Default(), discardLogger())
	code := runSource(interp, `print 1 + 2;`, discardLogger(), false)

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "3\n", buf.String())
}

func TestRunSourceReturnsUsageExitCodeOnScanError(t *testing.T) {
	interp := persistentInterpreter(config.Default(), discardLogger())
	code := runSource(interp, "@", discardLogger(), false)
	assert.Equal(t, exitUsage, code)
}

func TestRunSourceReturnsUsageExitCodeOnParseError(t *testing.T) {
	interp := persistentInterpreter(config.Default(), discardLogger())
	code := runSource(interp, "var;", discardLogger(), false)
	assert.Equal(t, exitUsage, code)
}

func TestRunSourceReturnsUsageExitCodeOnResolveError(t *testing.T) {
	interp := persistentInterpreter(config.Default(), discardLogger())
	code := runSource(interp, "return 1;", discardLogger(), false)
	assert.Equal(t, exitUsage, code)
}

func TestRunSourceReturnsRuntimeExitCodeOnTypeError(t *testing.T) {
	interp := persistentInterpreter(config.Default(), discardLogger())
	code := runSource(interp, `print "a" + 1;`, discardLogger(), false)
	assert.Equal(t, exitRuntime, code)
}

func TestPersistentInterpreterSharesGlobalsAcrossCalls(t *testing.T) {
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	defer func() { os.Stdout = old }()

	interp := persistentInterpreter(config.Default(), discardLogger())
	assert.Equal(t, exitOK, runSource(interp, `var counter = 0;`, discardLogger(), false))
	assert.Equal(t, exitOK, runSource(interp, `counter = counter + 1;`, discardLogger(), false))
	assert.Equal(t, exitOK, runSource(interp, `print counter;`, discardLogger(), false))

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	assert.Equal(t, "1\n", buf.String())
}

func TestLoadConfigSkipsMissingDefaultFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { _ = os.Chdir(wd) }()

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfigErrorsOnMissingExplicitPath(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))
	assert.Error(t, err)
}

func TestLoadConfigReadsExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lox.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"maxCallDepth": 50}`), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxCallDepth)
}

func TestRunFileReturnsIOErrorForMissingFile(t *testing.T) {
	code := runFile(filepath.Join(t.TempDir(), "missing.lox"), config.Default(), discardLogger(), false)
	assert.Equal(t, exitIOError, code)
}
