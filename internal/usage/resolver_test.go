package usage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeClaudeLog(t *testing.T, home, workingDir, name, content string) string {
	t.Helper()
	dir := filepath.Join(home, ".claude", "projects", encodeProjectPath(workingDir))
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEncodeProjectPath(t *testing.T) {
	assert.Equal(t, "-Users-jiwan-projects-test", encodeProjectPath("/Users/jiwan/projects/test"))
	assert.Equal(t, "-Users-jiwan-projects-cua-project", encodeProjectPath("/Users/jiwan/projects/cua_project"))
	assert.Equal(t, "-home-u-my-dir-v1-0", encodeProjectPath("/home/u/my dir/v1.0"))
}

func TestResolveClaudeSumsUsageAndSkipsMalformedLines(t *testing.T) {
	home := t.TempDir()
	content := `{"usage":{"input_tokens":1000000,"output_tokens":100000}}
this line is not json at all
{"type":"summary","no_usage_here":true}
{"usage":{"input_tokens":500,"cache_read_input_tokens":2000,"cache_creation_input_tokens":300}}
`
	writeClaudeLog(t, home, "/work/proj", "session.jsonl", content)

	r := &Resolver{Home: home}
	report := r.Resolve("/work/proj", "claude")

	assert.Equal(t, uint64(1_000_500), report.Usage.InputTokens)
	assert.Equal(t, uint64(100_000), report.Usage.OutputTokens)
	assert.Equal(t, uint64(2000), report.Usage.CacheReadTokens)
	assert.Equal(t, uint64(300), report.Usage.CacheWriteTokens)
	assert.Greater(t, report.CostUSD, 0.0)
}

func TestResolvePicksNewestLogFile(t *testing.T) {
	home := t.TempDir()
	old := writeClaudeLog(t, home, "/work/proj", "old.jsonl", `{"usage":{"input_tokens":1}}`)
	writeClaudeLog(t, home, "/work/proj", "new.jsonl", `{"usage":{"input_tokens":42}}`)

	// Push the old file's mtime into the past; writes can share a clock tick
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	r := &Resolver{Home: home}
	report := r.Resolve("/work/proj", "claude")
	assert.Equal(t, uint64(42), report.Usage.InputTokens)
}

func TestResolveMissingDirectoryYieldsZero(t *testing.T) {
	r := &Resolver{Home: t.TempDir()}
	report := r.Resolve("/nowhere/at/all", "claude")
	assert.Zero(t, report.Usage)
	assert.Zero(t, report.CostUSD)
}

func TestResolveEmptyDirectoryYieldsZero(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".claude", "projects", encodeProjectPath("/work/proj"))
	require.NoError(t, os.MkdirAll(dir, 0o755))

	r := &Resolver{Home: home}
	assert.Zero(t, r.Resolve("/work/proj", "claude"))
}

func TestResolveUnrecognizedProviderYieldsZero(t *testing.T) {
	home := t.TempDir()
	writeClaudeLog(t, home, "/work/proj", "s.jsonl", `{"usage":{"input_tokens":5}}`)

	r := &Resolver{Home: home}
	assert.Zero(t, r.Resolve("/work/proj", "codex"))
	assert.Zero(t, r.Resolve("/work/proj", "copilot"))
	assert.Zero(t, r.Resolve("/work/proj", ""))
}

func TestResolveGemini(t *testing.T) {
	home := t.TempDir()
	chats := filepath.Join(home, ".gemini", "tmp", "a1b2c3d4e5f6", "chats")
	require.NoError(t, os.MkdirAll(chats, 0o755))
	session := `{"sessionId":"s1","messages":[
		{"type":"user","content":"hi"},
		{"type":"assistant","model":"gemini-2.5-pro","tokens":{"input":1000,"output":200,"cached":50}},
		{"type":"assistant","tokens":{"input":500,"output":100}}
	]}`
	require.NoError(t, os.WriteFile(filepath.Join(chats, "session-1.json"), []byte(session), 0o644))

	r := &Resolver{Home: home}
	report := r.Resolve("/anything", "gemini")
	assert.Equal(t, uint64(1500), report.Usage.InputTokens)
	assert.Equal(t, uint64(300), report.Usage.OutputTokens)
	assert.Equal(t, uint64(50), report.Usage.CacheReadTokens)
}

func TestResolveGeminiMissingDirYieldsZero(t *testing.T) {
	r := &Resolver{Home: t.TempDir()}
	assert.Zero(t, r.Resolve("/anything", "gemini"))
}

func TestParseJSONLUsageUnreadableFile(t *testing.T) {
	assert.Zero(t, parseJSONLUsage(filepath.Join(t.TempDir(), "missing.jsonl")))
}
