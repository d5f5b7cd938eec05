package tui

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSkin(t *testing.T, dir, name, body string) {
	t.Helper()
	skins := filepath.Join(dir, "skins")
	if err := os.MkdirAll(skins, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(skins, name+".yml"), []byte(body), 0644); err != nil {
		t.Fatalf("write skin: %v", err)
	}
}

func TestLoadSkin_Builtin(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "default", "mono"} {
		s, err := LoadSkin(name, t.TempDir())
		if err != nil {
			t.Fatalf("LoadSkin(%q) error = %v", name, err)
		}
		want := name
		if want == "" {
			want = "default"
		}
		if s.Name != want {
			t.Fatalf("LoadSkin(%q).Name = %q, want %q", name, s.Name, want)
		}
	}
}

func TestLoadSkin_FileFallsBackToDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSkin(t, dir, "solar", "operator: \"#FFD700\"\nerror: \"#DC322F\"\n")

	s, err := LoadSkin("solar", dir)
	if err != nil {
		t.Fatalf("LoadSkin() error = %v", err)
	}
	if s.Name != "solar" {
		t.Fatalf("Name = %q, want solar", s.Name)
	}
	if s.Operator != "#FFD700" || s.Error != "#DC322F" {
		t.Fatalf("colours = %q %q", s.Operator, s.Error)
	}
	if s.Digit != builtinSkins["default"].Digit {
		t.Fatalf("Digit = %q, want default %q", s.Digit, builtinSkins["default"].Digit)
	}
}

func TestLoadSkin_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeSkin(t, dir, "broken", "operator: [\n")

	if _, err := LoadSkin("missing", dir); err == nil {
		t.Fatal("expected error for missing skin")
	}
	if _, err := LoadSkin("broken", dir); err == nil {
		t.Fatal("expected error for malformed skin")
	}
}

func TestInitializeSkin(t *testing.T) {
	prev := activeSkin
	t.Cleanup(func() { activeSkin = prev })

	if err := InitializeSkin("mono", ""); err != nil {
		t.Fatalf("InitializeSkin() error = %v", err)
	}
	if activeSkin.Name != "mono" {
		t.Fatalf("activeSkin = %q, want mono", activeSkin.Name)
	}

	if err := InitializeSkin("missing", t.TempDir()); err == nil {
		t.Fatal("expected error")
	}
	if activeSkin.Name != "mono" {
		t.Fatalf("failed load changed active skin to %q", activeSkin.Name)
	}
}
