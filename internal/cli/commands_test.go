package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tsbind/internal/compiler"
	"github.com/roach88/tsbind/internal/store"
)

const repoEnum = `pub enum RepoVisibility {
    #[serde(rename = "private")]
    Private,
    #[serde(rename = "public")]
    Public,
}
`

const repoStruct = `pub struct Repo<'a> {
    pub id: usize,
    pub name: ::std::borrow::Cow<'a, str>,
    pub visibility: RepoVisibility,
}
`

func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	resp := CLIResponse{Data: data}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	return resp
}

func TestGenerate_Stdout(t *testing.T) {
	stdout, _, err := execute(t, "generate", "testdata/repo.d.ts")
	require.NoError(t, err)

	assert.Contains(t, stdout, "// Code generated by tsbind. DO NOT EDIT.\n")
	assert.Contains(t, stdout, repoEnum)
	assert.Contains(t, stdout, repoStruct)
}

func TestGenerate_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "src", "repo.rs")

	stdout, _, err := execute(t, "generate", "testdata/repo.d.ts", "-o", out, "--number-type", "u64", "--no-prelude")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Generated 2 type(s) from testdata/repo.d.ts")
	assert.Contains(t, stdout, "Wrote "+out)

	code, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(code), "pub id: u64,")
	assert.NotContains(t, string(code), "use serde::Deserialize;")
}

func TestGenerate_JSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "generate", "testdata/repo.d.ts")
	require.NoError(t, err)

	var result GenerateResult
	resp := decodeResponse(t, stdout, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "testdata/repo.d.ts", result.Source)
	assert.Equal(t, 2, result.Stats.Segments)
	assert.Contains(t, result.Code, repoStruct)

	src, err := os.ReadFile("testdata/repo.d.ts")
	require.NoError(t, err)
	assert.Equal(t, store.DocumentID(src), result.DocumentID)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		code     string
		exitCode int
	}{
		{"parse", []string{"generate", "testdata/broken.d.ts"}, ErrCodeParse, ExitFailure},
		{"unresolved", []string{"generate", "testdata/unresolved.d.ts"}, ErrCodeUnresolved, ExitFailure},
		{"cycle", []string{"generate", "testdata/cycle.d.ts"}, ErrCodeCycle, ExitFailure},
		{"missing file", []string{"generate", "testdata/missing.d.ts"}, ErrCodeFetch, ExitCommandError},
		{"bad number type", []string{"generate", "testdata/repo.d.ts", "--number-type", "float"}, ErrCodeConfig, ExitCommandError},
		{"rustfmt without output", []string{"generate", "testdata/repo.d.ts", "--rustfmt"}, ErrCodeConfig, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, append([]string{"--format", "json"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))

			resp := decodeResponse(t, stdout, nil)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestGenerate_TextErrorOnStderr(t *testing.T) {
	stdout, stderr, err := execute(t, "generate", "testdata/cycle.d.ts")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error [E_CYCLE]")
}

func TestGenerate_RustfmtFailure(t *testing.T) {
	saved := rustfmtCommand
	rustfmtCommand = "false"
	t.Cleanup(func() { rustfmtCommand = saved })

	out := filepath.Join(t.TempDir(), "repo.rs")
	_, _, err := execute(t, "generate", "testdata/repo.d.ts", "-o", out, "--rustfmt")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeWrite)
}

func TestGenerate_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tsbind.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("number_type: i32\nreserved:\n  name: title\n"), 0o644))

	stdout, _, err := execute(t, "--config", cfgPath, "generate", "testdata/repo.d.ts")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pub id: i32,")
	assert.Contains(t, stdout, "    #[serde(rename = \"name\")]\n    pub title: ::std::borrow::Cow<'a, str>,\n")
}

func TestGenerate_RemoteWithCache(t *testing.T) {
	body, err := os.ReadFile("testdata/repo.d.ts")
	require.NoError(t, err)

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v7.0.0/payload-types/schema.d.ts", r.URL.Path)
		w.Write(body)
	}))
	defer server.Close()

	dir := t.TempDir()
	cache := filepath.Join(dir, "cache", "tsbind.db")
	out := filepath.Join(dir, "payload.rs")
	args := []string{"generate", "--base-url", server.URL, "--version", "v7.0.0", "--cache", cache, "-o", out}

	for range 2 {
		_, _, err := execute(t, args...)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())

	stdout, _, err := execute(t, "--format", "json", "runs", "--cache", cache)
	require.NoError(t, err)
	var runs []store.Run
	resp := decodeResponse(t, stdout, &runs)
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, runs, 2)
	assert.Equal(t, "v7.0.0", runs[0].Version)
	assert.Equal(t, 2, runs[0].Segments)
	assert.Equal(t, store.DocumentID(body), runs[1].DocumentID)
}

func TestGenerate_RemoteNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	stdout, _, err := execute(t, "--format", "json", "generate", "--base-url", server.URL, "--version", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeFetch, resp.Error.Code)
}

func TestInspect_Text(t *testing.T) {
	stdout, _, err := execute(t, "inspect", "testdata/repo.d.ts")
	require.NoError(t, err)

	assert.Contains(t, stdout, "testdata/repo.d.ts: 2 type(s) from 1 declaration(s)\n")
	assert.Contains(t, stdout, "  enum   RepoVisibility 2 variant(s)\n")
	assert.Contains(t, stdout, "  record Repo<'a> 3 field(s)\n")
}

func TestInspect_JSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "inspect", "testdata/repo.d.ts")
	require.NoError(t, err)

	var result InspectResult
	decodeResponse(t, stdout, &result)
	assert.Equal(t, compiler.Stats{Declarations: 1, Segments: 2, Records: 1, SumTypes: 1, Borrowed: 1}, result.Stats)
	assert.Equal(t, []SegmentSummary{
		{Name: "RepoVisibility", Kind: "enum", Members: 2},
		{Name: "Repo", Kind: "record", Members: 3, Borrowed: true},
	}, result.Segments)
}

func TestGraph_Text(t *testing.T) {
	stdout, _, err := execute(t, "graph", "testdata/repo.d.ts")
	require.NoError(t, err)
	assert.Equal(t, "RepoVisibility\nRepo -> RepoVisibility\n", stdout)
}

func TestGraph_Cycle(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "graph", "testdata/cycle.d.ts")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, stdout, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCycle, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Parent")
	assert.Contains(t, resp.Error.Message, "Child")
}

func TestRuns_NoCache(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "runs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no cache database configured")
}

func TestRuns_Empty(t *testing.T) {
	stdout, _, err := execute(t, "runs", "--cache", filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded\n", stdout)
}
