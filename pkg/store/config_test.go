package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestWriteConfig(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteConfig(dir, nil, false)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"~/.dayplan/dayplan.db", "[watch]", "every", "1h"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("config missing %q:\n%s", want, data)
		}
	}
	if _, err := WriteConfig(dir, nil, false); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if _, err := WriteConfig(dir, &FileConfig{Path: "/tmp/x.db"}, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}
}

func TestLoadConfigFromOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	db := filepath.Join(dir, "db", "plan.db")
	if _, err := WriteConfig(dir, &FileConfig{Path: db, State: filepath.Join(dir, "state"), Watch: WatchConfig{Every: "15m"}}, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("DAYPLAN_CONFIG_PATH", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath() != db || cfg.WatchEvery() != "15m" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("DAYPLAN_CONFIG_PATH", t.TempDir())
	t.Setenv("DAYPLAN_PATH", "/tmp/env.db")
	t.Setenv("DAYPLAN_WATCH_EVERY", "2h")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabasePath() != "/tmp/env.db" || cfg.WatchEvery() != "2h" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
