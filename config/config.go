// Package config reads and validates git-shoebox.yaml, the per-repository
// description of which dictionary files are managed and how their records
// are keyed.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
)

// FileName is the config file looked up at the repository root.
const FileName = "git-shoebox.yaml"

// defaultIDSpec can never match, so a dictionary with unique-id set but
// no id-spec reports every id as invalid. Supplying id-spec is in
// practice mandatory for unique-id dictionaries.
const defaultIDSpec = `$(?P<id>.+)^`

// User identifies the person running the tool. It is informational only.
type User struct {
	Name      string
	Role      string
	Namespace string
}

// Dictionary is the managed-file description after validation. RecordTag
// and IDTag carry the leading backslash marker.
type Dictionary struct {
	Name      string
	Path      string
	RecordTag string
	UniqueID  bool
	IDTag     string
	IDSpec    *regexp.Regexp
	Lifecycle string
}

type Config struct {
	User         User
	Dictionaries []Dictionary
}

type rawUser struct {
	Name      string `yaml:"name"`
	Role      string `yaml:"role"`
	Namespace string `yaml:"namespace"`
}

type rawDictionary struct {
	Name      string `yaml:"name"`
	Path      string `yaml:"path"`
	RecordTag string `yaml:"record-tag"`
	UniqueID  bool   `yaml:"unique-id"`
	IDTag     string `yaml:"id-tag"`
	IDSpec    string `yaml:"id-spec"`
	Lifecycle string `yaml:"lifecycle"`
}

type rawConfig struct {
	User         rawUser         `yaml:"user"`
	Dictionaries []rawDictionary `yaml:"dictionaries"`
}

// markTag prefixes a tag name with the line marker unless the config
// already wrote it that way.
func markTag(tag string) string {
	if tag == "" || strings.HasPrefix(tag, `\`) {
		return tag
	}
	return `\` + tag
}

// Parse decodes and validates config file contents.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	cfg := &Config{
		User: User(raw.User),
	}
	for _, rd := range raw.Dictionaries {
		d, err := parseDictionary(rd)
		if err != nil {
			return nil, err
		}
		cfg.Dictionaries = append(cfg.Dictionaries, d)
	}
	return cfg, nil
}

func parseDictionary(rd rawDictionary) (Dictionary, error) {
	d := Dictionary{
		Name:      rd.Name,
		Path:      rd.Path,
		RecordTag: markTag(rd.RecordTag),
		UniqueID:  rd.UniqueID,
		IDTag:     markTag(rd.IDTag),
		Lifecycle: rd.Lifecycle,
	}
	if d.Path == "" {
		return d, fmt.Errorf("dictionary %q: missing path", d.Name)
	}
	if d.RecordTag == "" {
		return d, fmt.Errorf("dictionary %q: missing record-tag", d.Name)
	}
	if d.UniqueID && d.IDTag == "" {
		return d, fmt.Errorf("dictionary %q: unique-id requires id-tag", d.Name)
	}
	spec := rd.IDSpec
	if spec == "" {
		spec = defaultIDSpec
	}
	re, err := regexp.Compile(spec)
	if err != nil {
		return d, fmt.Errorf("dictionary %q: id-spec: %w", d.Name, err)
	}
	if rd.IDSpec != "" {
		if err := checkIDGroups(re); err != nil {
			return d, fmt.Errorf("dictionary %q: id-spec: %w", d.Name, err)
		}
	}
	d.IDSpec = re
	return d, nil
}

func checkIDGroups(re *regexp.Regexp) error {
	var hasNS, hasID bool
	for _, name := range re.SubexpNames() {
		switch name {
		case "namespace":
			hasNS = true
		case "id":
			hasID = true
		}
	}
	if !hasNS || !hasID {
		return fmt.Errorf("pattern must define named groups 'namespace' and 'id'")
	}
	return nil
}

// NotManagedError reports a path the config does not cover.
type NotManagedError struct {
	Path string
}

func (e *NotManagedError) Error() string {
	return fmt.Sprintf("%q is not a managed dictionary file", e.Path)
}

// DictionaryByPath finds the single dictionary whose path matches the
// repo-relative slash path.
func (c *Config) DictionaryByPath(path string) (*Dictionary, error) {
	var found *Dictionary
	for i := range c.Dictionaries {
		if c.Dictionaries[i].Path == path {
			if found != nil {
				return nil, fmt.Errorf("%q is configured more than once", path)
			}
			found = &c.Dictionaries[i]
		}
	}
	if found == nil {
		return nil, &NotManagedError{Path: path}
	}
	return found, nil
}

// Sample is the starter config written by `git shoebox setup -init`.
const Sample = `# This is an example file, please edit me!

dictionaries:
  - name: Test Lexical Dictionary
    path: dictionaries/LexicalDic.txt
    record-tag: lex

    # this dictionary uses unique IDs
    # the regular expression allows the IDs to be validated and broken down
    # see the manual for explanation
    unique-id: true
    id-tag: id
    id-spec: '(?P<namespace>[a-zA-Z]*)(?P<id>[0-9]+)'

  - name: Test Parsing Dictionary
    path: dictionaries/ParsingDic.txt
    record-tag: lex
`
