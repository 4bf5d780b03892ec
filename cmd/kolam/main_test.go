package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// run executes the root command with a config file that does not exist,
// so every command sees the defaults.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderFormat(t *testing.T) {
	tests := []struct {
		flag, output, fallback string
		want                   string
	}{
		{"SVG", "x.png", "json", "svg"},
		{"", "x.JSON", "png", "json"},
		{"", "", "txt", "txt"},
		{"", "", "", "png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, renderFormat(tt.flag, tt.output, tt.fallback))
	}
}

func TestEncodePattern(t *testing.T) {
	p := kolam.MustPattern(kolam.Small, "F000")

	data, err := encodePattern(p, "png", renderOptions{Supersample: 1})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	data, err = encodePattern(p, "svg", renderOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>1-5-1:F000</title>")

	data, err = encodePattern(p, "json", renderOptions{})
	require.NoError(t, err)
	var j map[string]any
	require.NoError(t, json.Unmarshal(data, &j))
	assert.Equal(t, "F000", j["code"])

	data, err = encodePattern(p, "txt", renderOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "X"))

	_, err = encodePattern(p, "gif", renderOptions{})
	assert.Error(t, err)
}

func TestSiteURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/", siteURL("localhost:8080"))
	assert.Equal(t, "http://localhost:9090/", siteURL(":9090"))
	assert.Equal(t, "http://192.168.1.5:80/", siteURL("192.168.1.5:80"))
	assert.Equal(t, "http://example/", siteURL("example"))
}

func TestNewLogger(t *testing.T) {
	_, f, err := newLogger("debug", "")
	assert.NoError(t, err)
	assert.Nil(t, f)

	path := filepath.Join(t.TempDir(), "kolam.log")
	logger, f, err := newLogger("", path)
	require.NoError(t, err)
	require.NotNil(t, f)
	logger.Info("hello")
	require.NoError(t, f.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello")

	_, _, err = newLogger("loud", "")
	assert.Error(t, err)
	_, _, err = newLogger("", filepath.Join(t.TempDir(), "missing", "kolam.log"))
	assert.Error(t, err)
}

func TestLogFileClosed(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	logPath := filepath.Join(dir, "kolam.log")
	require.NoError(t, os.WriteFile(cfgFile, []byte("loglevel: debug\nlogfile: "+logPath+"\n"), 0600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	for i := 0; i < 2; i++ {
		rootCmd.SetArgs([]string{"--config", cfgFile, "version"})
		require.NoError(t, rootCmd.Execute())
		require.NotNil(t, logFile)
	}
	f := logFile
	closeLog()
	assert.Nil(t, logFile)
	assert.ErrorIs(t, f.Close(), os.ErrClosed)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "config loaded"))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "kolam dev\n", out)
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "", "decode", "1-5-1", "F")
	require.NoError(t, err)
	assert.Contains(t, out, "1-5-1:F000  4 crossings, 12 loops")
	assert.Contains(t, out, "BIT")

	// Invalid characters decode as zero bits.
	out, err = run(t, "", "decode", "171", "zz1")
	require.NoError(t, err)
	assert.Contains(t, out, "1-7-1:001000000  1 crossings, 35 loops")

	out, err = run(t, "", "decode", "1-5-1", " a000")
	require.NoError(t, err)
	assert.Contains(t, out, "1-5-1:A000  2 crossings, 14 loops")

	_, err = run(t, "", "decode", "1-9-1", "0")
	assert.ErrorIs(t, err, kolam.ErrUnknownVariant)
}

func TestInfoCommand(t *testing.T) {
	out, err := run(t, "", "info", "large")
	require.NoError(t, err)
	assert.Contains(t, out, "Variant:       1-7-1")
	assert.Contains(t, out, "Intersections: 36")
	assert.Contains(t, out, "Pulli dots:    25")
	assert.Contains(t, out, "Image:         420 x 420 px")
}

func TestRenderCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a5c3.json")
	out, err := run(t, "", "render", "151", "a5c3", "-o", path)
	require.NoError(t, err)
	assert.Equal(t, "Written: "+path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"code":"A5C3"`)

	_, err = run(t, "", "render", "151", "12345", "-o", path)
	assert.ErrorIs(t, err, kolam.ErrCodeTooLong)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	list := "# two designs\n151 A5C3 diamond\n1-7-1 FF\n"
	out, err := run(t, list, "batch", "-", "-d", dir, "-f", "svg")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "1-5-1_diamond.svg"))
	assert.FileExists(t, filepath.Join(dir, "1-5-1_diamond.svg"))
	assert.FileExists(t, filepath.Join(dir, "1-7-1_FF0000000.svg"))

	out, err = run(t, "151 a5c3 diamond\n", "batch", "-", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "1-5-1 A5C3 diamond\n", out)
	flagDryRun = false

	_, err = run(t, "151\n", "batch", "-")
	assert.ErrorContains(t, err, "line 1")
}
