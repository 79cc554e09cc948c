package main

import (
	"testing"
)

func TestParseExtensionSetNormalizes(t *testing.T) {
	set := parseExtensionSet(" .Go, MD , ,png")
	want := []string{"go", "md", "png"}
	if len(set) != len(want) {
		t.Fatalf("got %v, want %v", set, want)
	}
	for _, ext := range want {
		if _, ok := set[ext]; !ok {
			t.Errorf("set missing %q", ext)
		}
	}
}

func TestParseExtensionSetEmpty(t *testing.T) {
	if set := parseExtensionSet("  "); set != nil {
		t.Errorf("got %v, want nil", set)
	}
	if set := parseExtensionSet(""); set != nil {
		t.Errorf("got %v, want nil", set)
	}
}

func TestParsePathSet(t *testing.T) {
	set := parsePathSet("node_modules, target ,.git")
	for _, name := range []string{"node_modules", "target", ".git"} {
		if _, ok := set[name]; !ok {
			t.Errorf("set missing %q", name)
		}
	}
}

func TestValidateConflictingExtensionSets(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.IncludeExts = map[string]struct{}{"go": {}, "md": {}}
	cfg.ExcludeExts = map[string]struct{}{"md": {}}

	if err := cfg.validate(); err == nil {
		t.Fatal("overlapping include/exclude sets should fail validation")
	}
}

func TestValidateBadPattern(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Pattern = "[unclosed"

	if err := cfg.validate(); err == nil {
		t.Fatal("malformed glob should fail validation")
	}
}

func TestValidateNonPositiveMaxSize(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.MaxSize = 0

	if err := cfg.validate(); err == nil {
		t.Fatal("zero max size should fail validation")
	}
}

func TestValidateMissingRoot(t *testing.T) {
	cfg := testConfig(t.TempDir() + "/does-not-exist")
	if err := cfg.validate(); err == nil {
		t.Fatal("missing root should fail validation")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := testConfig(t.TempDir())
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
}

func TestValidateNegativeContext(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.ContextLines = -1
	if err := cfg.validate(); err == nil {
		t.Fatal("negative context should fail validation")
	}
}
