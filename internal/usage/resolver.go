package usage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// Resolver locates and parses agent session logs. Each supported
// provider carries its own path-derivation and parsing logic; the set is
// small and fixed, so it is a closed switch rather than a registry.
//
// Resolving scans a whole log file, so call it on explicit user request,
// never on the per-tick hot path.
type Resolver struct {
	// Home overrides the user home directory, for tests
	Home string
}

// NewResolver returns a resolver rooted at the user's home directory
func NewResolver() *Resolver {
	home, _ := os.UserHomeDir()
	return &Resolver{Home: home}
}

// Resolve returns usage and cost for the session logs of the given
// provider in workingDir. Unrecognized providers, missing directories,
// and unreadable or malformed files all yield a zero report.
func (r *Resolver) Resolve(workingDir, provider string) Report {
	var u TokenUsage
	switch provider {
	case "claude":
		u = r.claudeUsage(workingDir)
	case "gemini":
		u = r.geminiUsage()
	default:
		// Codex has no on-disk usage convention; unknown tags likewise
		return Report{}
	}
	return Report{Usage: u, CostUSD: u.CostUSD()}
}

// encodeProjectPath derives Claude's project log directory name from a
// working directory: separator and filler characters collapse to '-'.
func encodeProjectPath(path string) string {
	return strings.Map(func(c rune) rune {
		switch c {
		case '/', '_', '.', ' ':
			return '-'
		default:
			return c
		}
	}, path)
}

// claudeUsage sums usage over the newest JSONL session log under
// ~/.claude/projects/<encoded working dir>.
func (r *Resolver) claudeUsage(workingDir string) TokenUsage {
	dir := filepath.Join(r.Home, ".claude", "projects", encodeProjectPath(workingDir))
	path := newestFile(dir, ".jsonl")
	if path == "" {
		return TokenUsage{}
	}
	return parseJSONLUsage(path)
}

// claudeUsageLine is the subset of a Claude JSONL record we read
type claudeUsageLine struct {
	Usage *struct {
		InputTokens              uint64 `json:"input_tokens"`
		OutputTokens             uint64 `json:"output_tokens"`
		CacheReadInputTokens     uint64 `json:"cache_read_input_tokens"`
		CacheCreationInputTokens uint64 `json:"cache_creation_input_tokens"`
	} `json:"usage"`
}

// parseJSONLUsage scans a whole newline-delimited JSON file, summing
// every nested usage object. Malformed lines are skipped silently.
func parseJSONLUsage(path string) TokenUsage {
	var usage TokenUsage

	f, err := os.Open(path)
	if err != nil {
		return usage
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry claudeUsageLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.Usage == nil {
			continue
		}
		usage.InputTokens += entry.Usage.InputTokens
		usage.OutputTokens += entry.Usage.OutputTokens
		usage.CacheReadTokens += entry.Usage.CacheReadInputTokens
		usage.CacheWriteTokens += entry.Usage.CacheCreationInputTokens
	}
	return usage
}

// geminiSession is the subset of a Gemini chat file we read
type geminiSession struct {
	Messages []struct {
		Tokens *struct {
			Input  uint64 `json:"input"`
			Output uint64 `json:"output"`
			Cached uint64 `json:"cached"`
		} `json:"tokens"`
	} `json:"messages"`
}

// geminiUsage sums per-message token counts from the newest chat file of
// the most recently active project under ~/.gemini/tmp. Gemini keys its
// project dirs by an opaque hash, not the working directory, so the most
// recently modified project stands in for "current".
func (r *Resolver) geminiUsage() TokenUsage {
	tmpDir := filepath.Join(r.Home, ".gemini", "tmp")
	project := newestDir(tmpDir)
	if project == "" {
		return TokenUsage{}
	}
	path := newestFile(filepath.Join(project, "chats"), ".json")
	if path == "" {
		return TokenUsage{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TokenUsage{}
	}
	var session geminiSession
	if err := json.Unmarshal(data, &session); err != nil {
		return TokenUsage{}
	}

	var usage TokenUsage
	for _, msg := range session.Messages {
		if msg.Tokens == nil {
			continue
		}
		usage.InputTokens += msg.Tokens.Input
		usage.OutputTokens += msg.Tokens.Output
		usage.CacheReadTokens += msg.Tokens.Cached
	}
	return usage
}

// newestFile returns the most recently modified file with the given
// extension in dir, or "" if the directory is missing or empty.
func newestFile(dir, ext string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(dir, e.Name())
			newestMod = mod
		}
	}
	return newest
}

// newestDir returns the most recently modified subdirectory of dir
func newestDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var newest string
	var newestMod int64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(dir, e.Name())
			newestMod = mod
		}
	}
	return newest
}
