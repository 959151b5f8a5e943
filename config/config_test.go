package config

import (
	"errors"
	"strings"
	"testing"
)

func TestParseMinimal(t *testing.T) {
	cfg, err := Parse([]byte(`
dictionaries:
  - name: lexicon
    path: dict.txt
    record-tag: lx
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Dictionaries) != 1 {
		t.Fatalf("got %d dictionaries, want 1", len(cfg.Dictionaries))
	}
	d := cfg.Dictionaries[0]
	if d.RecordTag != `\lx` {
		t.Errorf("RecordTag = %q, want marker-prefixed tag", d.RecordTag)
	}
	if d.UniqueID {
		t.Error("UniqueID should default to false")
	}
	if d.IDSpec == nil {
		t.Error("IDSpec should default to the never-matching pattern")
	} else if d.IDSpec.MatchString("anything") {
		t.Error("default IDSpec must not match")
	}
}

func TestParseUniqueID(t *testing.T) {
	cfg, err := Parse([]byte(`
dictionaries:
  - name: lexicon
    path: dict.txt
    record-tag: lx
    unique-id: true
    id-tag: id
    id-spec: '(?P<namespace>[a-z]*)(?P<id>[0-9]+)'
`))
	if err != nil {
		t.Fatal(err)
	}
	d := cfg.Dictionaries[0]
	if d.IDTag != `\id` {
		t.Errorf("IDTag = %q", d.IDTag)
	}
	if !d.IDSpec.MatchString("abc12") {
		t.Error("IDSpec should match a namespaced id")
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name, src, wantErr string
	}{
		{
			name: "missing path",
			src: `
dictionaries:
  - name: broken
    record-tag: lx
`,
			wantErr: "missing path",
		},
		{
			name: "missing record tag",
			src: `
dictionaries:
  - name: broken
    path: dict.txt
`,
			wantErr: "missing record-tag",
		},
		{
			name: "unique id without id tag",
			src: `
dictionaries:
  - name: broken
    path: dict.txt
    record-tag: lx
    unique-id: true
`,
			wantErr: "unique-id requires id-tag",
		},
		{
			name: "id spec without groups",
			src: `
dictionaries:
  - name: broken
    path: dict.txt
    record-tag: lx
    unique-id: true
    id-tag: id
    id-spec: '[0-9]+'
`,
			wantErr: "named groups",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Parse error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestDictionaryByPath(t *testing.T) {
	cfg, err := Parse([]byte(`
dictionaries:
  - name: a
    path: dicts/a.txt
    record-tag: lx
  - name: b
    path: dicts/b.txt
    record-tag: lx
`))
	if err != nil {
		t.Fatal(err)
	}
	d, err := cfg.DictionaryByPath("dicts/b.txt")
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "b" {
		t.Errorf("found %q, want b", d.Name)
	}

	_, err = cfg.DictionaryByPath("dicts/c.txt")
	var nm *NotManagedError
	if !errors.As(err, &nm) {
		t.Errorf("want NotManagedError, got %v", err)
	}
}

func TestSampleParses(t *testing.T) {
	cfg, err := Parse([]byte(Sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Dictionaries) != 2 {
		t.Fatalf("sample should define 2 dictionaries, got %d", len(cfg.Dictionaries))
	}
	if !cfg.Dictionaries[0].UniqueID {
		t.Error("first sample dictionary should be unique-id")
	}
}
