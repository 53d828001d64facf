package cppruntime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilesListsAllSources(t *testing.T) {
	want := []string{"builtins.cpp", "builtins.hpp", "dynamic_type.cpp", "dynamic_type.hpp"}
	got := Files()
	if len(got) != len(want) {
		t.Fatalf("wrong number of sources. expected=%d, got=%d (%v)", len(want), len(got), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("sources[%d] wrong. expected=%q, got=%q", i, name, got[i])
		}
	}
}

func TestSourceContents(t *testing.T) {
	data, err := Source("dynamic_type.hpp")
	if err != nil {
		t.Fatalf("reading embedded header: %s", err)
	}
	if !strings.Contains(string(data), "class DynamicType") {
		t.Errorf("header missing DynamicType class declaration")
	}

	if _, err := Source("no_such_file.hpp"); err == nil {
		t.Errorf("expected error for unknown source name")
	}
}

func TestDictReadOfMissingKeyThrows(t *testing.T) {
	data, err := Source("dynamic_type.cpp")
	if err != nil {
		t.Fatalf("reading embedded source: %s", err)
	}
	if !strings.Contains(string(data), `throw std::runtime_error("KeyError: '" + key + "'")`) {
		t.Errorf("dict subscript read should throw KeyError for a missing key")
	}
	if strings.Contains(string(data), "return getDict()[key];") {
		t.Errorf("dict subscript read must not default-insert through the map")
	}
}

func TestRangeArgGuardShipped(t *testing.T) {
	header, err := Source("builtins.hpp")
	if err != nil {
		t.Fatalf("reading embedded header: %s", err)
	}
	if !strings.Contains(string(header), "long long range_arg(const DynamicType &value);") {
		t.Errorf("header missing the range_arg declaration generated loops call")
	}
	impl, err := Source("builtins.cpp")
	if err != nil {
		t.Fatalf("reading embedded source: %s", err)
	}
	if !strings.Contains(string(impl), "range() argument must be int") {
		t.Errorf("range_arg should reject non-integer bounds")
	}
}

func TestWriteSupport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := WriteSupport(dir); err != nil {
		t.Fatalf("WriteSupport failed: %s", err)
	}
	for _, name := range Files() {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing runtime source %s: %s", name, err)
		}
		if len(data) == 0 {
			t.Errorf("runtime source %s is empty", name)
		}
	}
}

func TestWriteSupportOverwrites(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "builtins.hpp")
	if err := os.WriteFile(stale, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seeding stale file: %s", err)
	}
	if err := WriteSupport(dir); err != nil {
		t.Fatalf("WriteSupport failed: %s", err)
	}
	data, err := os.ReadFile(stale)
	if err != nil {
		t.Fatalf("reading rewritten file: %s", err)
	}
	if string(data) == "stale" {
		t.Errorf("expected stale runtime source to be overwritten")
	}
}
