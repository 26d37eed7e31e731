package mapping

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const sampleTable = `galleries:
  exhibition-2024:
    - work/exhibition/poster.webp
    - work/exhibition/floor.jpg
  branding:
    - work/branding/logo.png
  empty-entry: []
`

func writeTable(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "galleries.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	return path
}

func TestLoadAndLookup(t *testing.T) {
	table, err := Load(writeTable(t, sampleTable))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer table.Close()

	urls, ok := table.Lookup("exhibition-2024")
	if !ok {
		t.Fatal("Lookup(exhibition-2024) missed")
	}
	want := []string{"work/exhibition/poster.webp", "work/exhibition/floor.jpg"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("Lookup = %v, want %v", urls, want)
	}

	if _, ok := table.Lookup("unknown"); ok {
		t.Error("Lookup(unknown) hit, want miss")
	}

	// An entry with no URLs behaves like a missing key so resolution can
	// fall through to convention probing.
	if _, ok := table.Lookup("empty-entry"); ok {
		t.Error("Lookup(empty-entry) hit, want miss")
	}

	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}
}

func TestLoadEmptyPath(t *testing.T) {
	table, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	defer table.Close()
	if table.Len() != 0 {
		t.Errorf("empty table Len = %d, want 0", table.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file should start empty, got error: %v", err)
	}
	defer table.Close()
	if table.Len() != 0 {
		t.Errorf("Len = %d, want 0", table.Len())
	}
}

func TestLoadMalformed(t *testing.T) {
	if _, err := Load(writeTable(t, "galleries: [not, a, map]")); err == nil {
		t.Error("Load of malformed YAML succeeded, want error")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	table, err := Load(writeTable(t, sampleTable))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer table.Close()

	urls, _ := table.Lookup("branding")
	urls[0] = "mutated"

	again, _ := table.Lookup("branding")
	if again[0] != "work/branding/logo.png" {
		t.Error("Lookup result aliases internal state")
	}
}

func TestWatchReload(t *testing.T) {
	path := writeTable(t, sampleTable)
	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer table.Close()

	if err := table.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	updated := "galleries:\n  fresh:\n    - new/01.png\n"
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("rewrite table: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := table.Lookup("fresh"); ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("table was not reloaded after file change")
		case <-time.After(20 * time.Millisecond):
		}
	}
}
