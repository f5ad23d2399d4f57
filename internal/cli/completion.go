package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
)

// CompletionCmd generates shell completions
type CompletionCmd struct {
	Shell string `arg:"" enum:"bash,zsh,fish" help:"Shell type (bash, zsh, fish)"`
}

type completionModel struct {
	// command path joined with spaces -> child command names
	Commands map[string][]string
	// command path -> flag tokens available there
	Flags map[string][]string
	// flag token -> enum values
	Enums map[string][]string
}

// Run executes the completion command. The *kong.Context keeps the
// generated script in sync with the actual CLI model.
func (c *CompletionCmd) Run(globals *Globals, ctx *kong.Context) error {
	model := buildCompletionModel(ctx)
	switch c.Shell {
	case "bash":
		return c.generateBash(globals, model)
	case "zsh":
		return c.generateZsh(globals, model)
	case "fish":
		return c.generateFish(globals, model)
	default:
		return fmt.Errorf("unsupported shell: %s", c.Shell)
	}
}

func buildCompletionModel(ctx *kong.Context) completionModel {
	m := completionModel{
		Commands: map[string][]string{},
		Flags:    map[string][]string{},
		Enums:    map[string][]string{},
	}
	if ctx == nil || ctx.Model == nil || ctx.Model.Node == nil {
		return m
	}

	var walk func(n *kong.Node, path string)
	walk = func(n *kong.Node, path string) {
		var children []string
		for _, child := range n.Children {
			if child == nil || child.Type != kong.CommandNode || child.Hidden {
				continue
			}
			children = append(children, child.Name)
		}
		sort.Strings(children)
		m.Commands[path] = children

		tokens := map[string]struct{}{}
		for _, group := range n.AllFlags(true) {
			for _, f := range group {
				if f == nil {
					continue
				}
				long := "--" + f.Name
				tokens[long] = struct{}{}
				if f.Short != 0 {
					tokens["-"+string(f.Short)] = struct{}{}
				}
				if enum := splitEnum(f.Enum); len(enum) > 0 {
					if _, ok := m.Enums[long]; !ok {
						m.Enums[long] = enum
					}
				}
			}
		}
		flags := make([]string, 0, len(tokens))
		for t := range tokens {
			flags = append(flags, t)
		}
		sort.Strings(flags)
		m.Flags[path] = flags

		for _, child := range n.Children {
			if child == nil || child.Type != kong.CommandNode || child.Hidden {
				continue
			}
			childPath := child.Name
			if path != "" {
				childPath = path + " " + child.Name
			}
			walk(child, childPath)
		}
	}
	walk(ctx.Model.Node, "")
	return m
}

func splitEnum(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func sortedPaths(m map[string][]string) []string {
	paths := make([]string, 0, len(m))
	for k := range m {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

func (c *CompletionCmd) generateBash(globals *Globals, m completionModel) error {
	var sb strings.Builder
	sb.WriteString(`# coder-tools bash completion script
# Add to ~/.bashrc:
#   eval "$(coder-tools completion bash)"

_coder_tools_completions() {
    local cur prev words cword
    _init_completion || return

    local cmdpath=""
    local i
    for ((i=1; i < cword; i++)); do
        local w=${words[i]}
        [[ -z "${w}" || "${w}" == -* ]] && continue
        if [[ -z "${cmdpath}" ]]; then
            cmdpath="${w}"
        else
            cmdpath="${cmdpath} ${w}"
        fi
    done

    case "${prev}" in
`)
	for _, token := range sortedPaths(m.Enums) {
		sb.WriteString("        ")
		sb.WriteString(token)
		sb.WriteString(")\n            COMPREPLY=($(compgen -W \"")
		sb.WriteString(strings.Join(m.Enums[token], " "))
		sb.WriteString("\" -- \"${cur}\"))\n            return\n            ;;\n")
	}
	sb.WriteString(`    esac

    local subcommands=""
    local flags=""
    case "${cmdpath}" in
`)
	for _, path := range sortedPaths(m.Commands) {
		sb.WriteString("        \"")
		sb.WriteString(path)
		sb.WriteString("\")\n            subcommands=\"")
		sb.WriteString(strings.Join(m.Commands[path], " "))
		sb.WriteString("\"\n            flags=\"")
		sb.WriteString(strings.Join(m.Flags[path], " "))
		sb.WriteString("\"\n            ;;\n")
	}
	sb.WriteString(`    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi

    if [[ -n "${subcommands}" ]]; then
        COMPREPLY=($(compgen -W "${subcommands}" -- "${cur}"))
    fi
}

complete -F _coder_tools_completions coder-tools
`)
	_, err := fmt.Fprint(globals.Stdout, sb.String())
	return err
}

func (c *CompletionCmd) generateZsh(globals *Globals, m completionModel) error {
	var sb strings.Builder
	sb.WriteString(`#compdef coder-tools
# coder-tools zsh completion script
# Add to ~/.zshrc:
#   eval "$(coder-tools completion zsh)"

_coder_tools() {
  local cur prev cmdpath
  cur="${words[CURRENT]}"
  prev="${words[CURRENT-1]}"

  cmdpath=""
  local i
  for ((i=2; i < CURRENT; i++)); do
    local w="${words[i]}"
    [[ -z "${w}" || "${w}" == -* ]] && continue
    if [[ -z "${cmdpath}" ]]; then
      cmdpath="${w}"
    else
      cmdpath="${cmdpath} ${w}"
    fi
  done

  case "${prev}" in
`)
	for _, token := range sortedPaths(m.Enums) {
		sb.WriteString("    ")
		sb.WriteString(token)
		sb.WriteString(")\n      compadd -- ")
		sb.WriteString(strings.Join(m.Enums[token], " "))
		sb.WriteString("\n      return\n      ;;\n")
	}
	sb.WriteString(`  esac

  local -a subcommands
  local -a flags
  case "${cmdpath}" in
`)
	for _, path := range sortedPaths(m.Commands) {
		sb.WriteString("    \"")
		sb.WriteString(path)
		sb.WriteString("\")\n      subcommands=(")
		sb.WriteString(strings.Join(m.Commands[path], " "))
		sb.WriteString(")\n      flags=(")
		sb.WriteString(strings.Join(m.Flags[path], " "))
		sb.WriteString(")\n      ;;\n")
	}
	sb.WriteString(`  esac

  if [[ "${cur}" == -* ]]; then
    compadd -- ${flags[@]}
    return
  fi

  if (( ${#subcommands[@]} > 0 )); then
    compadd -- ${subcommands[@]}
  fi
}

compdef _coder_tools coder-tools
`)
	_, err := fmt.Fprint(globals.Stdout, sb.String())
	return err
}

func (c *CompletionCmd) generateFish(globals *Globals, m completionModel) error {
	var sb strings.Builder
	sb.WriteString(`# coder-tools fish completion script
# Add to ~/.config/fish/completions/coder-tools.fish

complete -c coder-tools -f

`)
	for _, cmd := range m.Commands[""] {
		sb.WriteString("complete -c coder-tools -n \"__fish_use_subcommand\" -a \"")
		sb.WriteString(cmd)
		sb.WriteString("\"\n")
	}
	for _, flag := range m.Flags[""] {
		if !strings.HasPrefix(flag, "--") {
			continue
		}
		long := strings.TrimPrefix(flag, "--")
		if enum := m.Enums[flag]; len(enum) > 0 {
			sb.WriteString("complete -c coder-tools -l ")
			sb.WriteString(long)
			sb.WriteString(" -xa \"")
			sb.WriteString(strings.Join(enum, " "))
			sb.WriteString("\"\n")
			continue
		}
		sb.WriteString("complete -c coder-tools -l ")
		sb.WriteString(long)
		sb.WriteString("\n")
	}
	_, err := fmt.Fprint(globals.Stdout, sb.String())
	return err
}
