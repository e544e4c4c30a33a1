package migration

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestParseFilename(t *testing.T) {
	cases := []struct {
		in      string
		version int64
		name    string
		ok      bool
	}{
		{"V1__init.sql", 1, "init", true},
		{"V42__add_postings_index.sql", 42, "add_postings_index", true},
		{"V1__init.txt", 0, "", false},
		{"1__init.sql", 0, "", false},
		{"V__init.sql", 0, "", false},
		{"Vx__init.sql", 0, "", false},
		{"V1__.sql", 0, "", false},
		{"README.md", 0, "", false},
	}
	for _, c := range cases {
		version, name, ok := parseFilename(c.in)
		if ok != c.ok || version != c.version || name != c.name {
			t.Errorf("parseFilename(%q) = (%d, %q, %v), want (%d, %q, %v)",
				c.in, version, name, ok, c.version, c.name, c.ok)
		}
	}
}

func TestLoadScriptsOrdersByVersion(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "V10__later.sql", "SELECT 10;")
	writeScript(t, dir, "V2__earlier.sql", "SELECT 2;")
	writeScript(t, dir, "notes.txt", "ignore me")

	scripts, err := loadScripts(dir)
	if err != nil {
		t.Fatalf("loadScripts: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("scripts = %d, want 2", len(scripts))
	}
	if scripts[0].version != 2 || scripts[1].version != 10 {
		t.Fatalf("order = %d, %d, want 2, 10", scripts[0].version, scripts[1].version)
	}
	if scripts[0].checksum == "" || scripts[0].checksum == scripts[1].checksum {
		t.Fatalf("checksums should be distinct and non-empty")
	}
}

func TestLoadScriptsRejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "V3__one.sql", "SELECT 1;")
	writeScript(t, dir, "V3__two.sql", "SELECT 2;")

	if _, err := loadScripts(dir); !errors.Is(err, ErrDuplicateVersion) {
		t.Fatalf("err = %v, want ErrDuplicateVersion", err)
	}
}

func TestLoadScriptsRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "V1__blank.sql", "   \n")

	if _, err := loadScripts(dir); err == nil {
		t.Fatal("expected error for empty migration file")
	}
}

func TestLoadScriptsMissingDir(t *testing.T) {
	scripts, err := loadScripts(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing dir should not error, got %v", err)
	}
	if scripts != nil {
		t.Fatalf("scripts = %v, want nil", scripts)
	}
}
