package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Fatalf("unexpected file %s", name)
		}
	}
	if len(ups) == 0 {
		t.Fatalf("expected at least one migration")
	}
	for version := range ups {
		if !downs[version] {
			t.Fatalf("migration %s has no down file", version)
		}
	}
}

func TestInitialSchemaDeclaresConstraints(t *testing.T) {
	raw, err := fs.ReadFile(files, "sql/0001_init.up.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	schema := string(raw)
	for _, want := range []string{
		"name TEXT NOT NULL UNIQUE",
		"UNIQUE (name, artist_id)",
		"CHECK (likes >= 0)",
		"PRIMARY KEY (playlist_id, song_id)",
	} {
		if !strings.Contains(schema, want) {
			t.Fatalf("schema is missing %q", want)
		}
	}
}
