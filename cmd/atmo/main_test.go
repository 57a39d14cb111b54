package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestClassifyCommand(t *testing.T) {
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(run(t, "classify", "Create a marketing strategy for Phoenix")), &got))
	require.Equal(t, true, got["shouldGenerate"])
	require.Equal(t, "marketing_strategy", got["documentType"])

	got = nil
	require.NoError(t, json.Unmarshal([]byte(run(t, "classify", "Create a new project called Phoenix")), &got))
	require.Equal(t, false, got["shouldGenerate"])
}

func TestRenderCommandWritesPDF(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(src, []byte(`{"title":"Phoenix Launch","executiveSummary":"Launch Phoenix in Q3."}`), 0o600))
	dst := filepath.Join(dir, "out.pdf")

	out := run(t, "render", src, "-o", dst, "--for", "Ada")
	require.True(t, strings.HasPrefix(out, "wrote "+dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
