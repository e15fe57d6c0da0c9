package bundle

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestBundle(t *testing.T) {
	dir := t.TempDir()
	write := func(name, contents string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("launches.preql", "SELECT launch;")
	write("vehicles.preql", "SELECT vehicle;")
	write("readme.txt", "not a model")

	out := filepath.Join(t.TempDir(), "models.json")
	count, err := Bundle(dir, out)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 models, got %d", count)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var models []Model
	if err := json.Unmarshal(data, &models); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(models))
	}
	if models[0].ID != "launches.preql" || models[0].Name != "launches" {
		t.Errorf("unexpected first model: %+v", models[0])
	}
	if models[0].Contents != "SELECT launch;" || models[0].Type != "preql" {
		t.Errorf("unexpected model payload: %+v", models[0])
	}
}

func TestBundleEmptyDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "models.json")
	count, err := Bundle(t.TempDir(), out)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 models, got %d", count)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty array, got %q", data)
	}
}

func TestBundleMissingDir(t *testing.T) {
	if _, err := Bundle(filepath.Join(t.TempDir(), "nope"), "out.json"); err == nil {
		t.Error("expected error for missing directory")
	}
}
