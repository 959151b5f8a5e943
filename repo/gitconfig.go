package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"

	"github.com/fieldlex/git-shoebox/config"
)

const (
	filterName  = "shoebox"
	filterAttr  = "filter=shoebox"
	attrComment = "# this section is managed by git-shoebox. Please do not edit below this line!"
)

// git config options under filter.shoebox that must be present for the
// sync to be safe.
var gitConfigKeys = [...][2]string{
	{"clean", "git-shoebox filter -clean %f"},
	{"smudge", "git-shoebox filter -smudge %f"},
	{"required", "true"},
}

var filterAttrRe = regexp.MustCompile(`\b` + regexp.QuoteMeta(filterAttr) + `\b`)

// validatedConfig loads the shoebox config and verifies that the whole
// git side of the setup (staged config copy, filter config, attributes)
// is current.
func (r *Repository) validatedConfig() (*config.Config, error) {
	local, err := r.readLocalConfig()
	if err != nil {
		return nil, err
	}
	if local == nil {
		return nil, ErrConfigMissing
	}
	staged, err := r.readStagedConfig()
	if err != nil {
		return nil, err
	}
	if staged == nil || !bytes.Equal(local, staged) {
		return nil, ErrConfigChanged
	}

	cfg, err := config.Parse(local)
	if err != nil {
		return nil, err
	}

	gitCfg, err := r.git.Config()
	if err != nil {
		return nil, err
	}
	sec := gitCfg.Raw.Section("filter").Subsection(filterName)
	for _, kv := range gitConfigKeys {
		if strings.TrimSpace(sec.Option(kv[0])) != kv[1] {
			return nil, ErrConfigNeeded
		}
	}

	attributes, err := r.readAttributes()
	if err != nil {
		return nil, err
	}
	patterns := map[string]bool{}
	for _, line := range splitLines(attributes) {
		pattern, attrs := parseAttributeLine(line)
		if filterAttrRe.MatchString(attrs) {
			patterns[pattern] = true
		}
	}
	for _, d := range cfg.Dictionaries {
		if patterns[d.Path] {
			delete(patterns, d.Path)
		} else if esc := cEscape(d.Path); patterns[esc] {
			delete(patterns, esc)
		} else {
			return nil, ErrConfigNeeded
		}
	}
	// leftover patterns mean attributes cover files the config no
	// longer mentions
	if len(patterns) > 0 {
		return nil, ErrConfigNeeded
	}
	return cfg, nil
}

// Configure brings the git side of the setup up to date: stages the
// config file, writes the filter config, and rewrites the managed
// section of the attributes file. Progress is reported to out.
func (r *Repository) Configure(out io.Writer) error {
	local, err := r.readLocalConfig()
	if err != nil {
		return err
	}
	if local == nil {
		return ErrConfigMissing
	}
	cfg, err := config.Parse(local)
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen).Sprint("✓")

	staged, err := r.readStagedConfig()
	if err != nil {
		return err
	}
	if staged == nil || !bytes.Equal(staged, local) {
		st, err := r.Staging()
		if err != nil {
			return err
		}
		if err := st.StageFile(config.FileName); err != nil {
			return err
		}
		if err := st.Commit(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", ok, color.New(color.Bold).Sprintf("git add %s", config.FileName))
	}

	gitCfg, err := r.git.Config()
	if err != nil {
		return err
	}
	sec := gitCfg.Raw.Section("filter").Subsection(filterName)
	for _, kv := range gitConfigKeys {
		sec.SetOption(kv[0], kv[1])
	}
	if err := r.git.SetConfig(gitCfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s updated git config file\n", ok)

	attributes, err := r.readAttributes()
	if err != nil {
		return err
	}

	// both spellings of every managed path may appear in the file
	managed := map[string]bool{}
	for _, d := range cfg.Dictionaries {
		managed[d.Path] = true
		managed[cEscape(d.Path)] = true
	}

	var kept []string
	for _, line := range splitLines(attributes) {
		pattern, attrs := parseAttributeLine(line)
		switch {
		case managed[pattern]:
		case filterAttrRe.MatchString(attrs):
		case strings.TrimSpace(line) == attrComment:
		default:
			kept = append(kept, line)
		}
	}
	kept = append(kept, attrComment)
	for _, d := range cfg.Dictionaries {
		kept = append(kept, fmt.Sprintf("%s %s", cEscape(d.Path), filterAttr))
	}

	if err := r.writeAttributes(strings.Join(kept, "\n")); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s updated git attributes file\n", ok)
	return nil
}

func (r *Repository) readLocalConfig() ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(r.workdir, config.FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read %q: %w", config.FileName, err)
	}
	return data, nil
}

func (r *Repository) readStagedConfig() ([]byte, error) {
	idx, err := r.git.Storer.Index()
	if err != nil {
		return nil, err
	}
	entry, err := idx.Entry(config.FileName)
	if err != nil {
		return nil, nil
	}
	return r.blobBytes(entry.Hash)
}

func (r *Repository) attributesPath() string {
	return filepath.Join(r.gitDir, "info", "attributes")
}

func (r *Repository) readAttributes() (string, error) {
	data, err := os.ReadFile(r.attributesPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (r *Repository) writeAttributes(text string) error {
	path := r.attributesPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0o644)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// parseAttributeLine splits an attributes line into the pattern (quotes
// included for quoted patterns) and the rest.
func parseAttributeLine(line string) (pattern, rest string) {
	line = strings.TrimSpace(line)
	end := len(line)
	if strings.HasPrefix(line, `"`) {
		escaped := true
		for i, ch := range line {
			switch {
			case ch == '"' && !escaped:
				return line[:i+1], line[i+1:]
			case ch == '\\':
				escaped = !escaped
			default:
				escaped = false
			}
		}
	} else if i := strings.IndexByte(line, ' '); i >= 0 {
		end = i
	}
	return line[:end], line[end:]
}

// cEscape renders a path the way git quotes attribute patterns: always
// wrapped in double quotes, ASCII specials escaped, everything else
// kept as written.
func cEscape(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\"`)
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
