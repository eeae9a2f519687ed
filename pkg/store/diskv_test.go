package store

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestLocalStateRoundTrip(t *testing.T) {
	base := t.TempDir()
	l, err := OpenLocalState(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, ok, err := l.Get("lastOpenedDate"); ok || err != nil {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := l.Set("lastOpenedDate", "2024-01-02"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := l.Set("dealtWith:2024-01-02", `["x"]`); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := l.Get("dealtWith:2024-01-02")
	if err != nil || !ok || v != `["x"]` {
		t.Fatalf("get = %q, %v, %v", v, ok, err)
	}
	if _, err := os.Stat(filepath.Join(base, "dealtWith", "2024-01-02")); err != nil {
		t.Fatalf("expected per-day file: %v", err)
	}

	// A fresh instance reads what the first one wrote.
	again, err := OpenLocalState(base)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if v, _, _ := again.Get("lastOpenedDate"); v != "2024-01-02" {
		t.Fatalf("marker = %q", v)
	}

	keys := again.Keys("dealtWith:")
	sort.Strings(keys)
	if len(keys) != 1 || keys[0] != "dealtWith:2024-01-02" {
		t.Fatalf("keys = %v", keys)
	}
	if err := again.Erase("dealtWith:2024-01-02"); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if err := again.Erase("dealtWith:2024-01-02"); err != nil {
		t.Fatalf("erase twice: %v", err)
	}
}

func TestKeyTransform(t *testing.T) {
	pk := keyToPathTransform("dealtWith:2024-01-02")
	if len(pk.Path) != 1 || pk.Path[0] != "dealtWith" || pk.FileName != "2024-01-02" {
		t.Fatalf("unexpected path key %+v", pk)
	}
	if got := pathToKeyTransform(pk); got != "dealtWith:2024-01-02" {
		t.Fatalf("inverse = %q", got)
	}
	flat := keyToPathTransform("lastOpenedDate")
	if len(flat.Path) != 0 || pathToKeyTransform(flat) != "lastOpenedDate" {
		t.Fatalf("unexpected flat key %+v", flat)
	}
}
