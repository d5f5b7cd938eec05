package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Skin is a named colour set for the calculator.
type Skin struct {
	Name     string `yaml:"name"`
	Title    string `yaml:"title"`
	Border   string `yaml:"border"`
	History  string `yaml:"history"`
	Display  string `yaml:"display"`
	Error    string `yaml:"error"`
	Digit    string `yaml:"digit"`
	Operator string `yaml:"operator"`
	Action   string `yaml:"action"`
	Equals   string `yaml:"equals"`
	Muted    string `yaml:"muted"`
}

var builtinSkins = map[string]Skin{
	"default": {
		Name:     "default",
		Title:    "#00D0A1",
		Border:   "#5A5A7A",
		History:  "#8A8AA0",
		Display:  "#FFFFFF",
		Error:    "#FF4444",
		Digit:    "#E0E0E0",
		Operator: "#FFAA00",
		Action:   "#4FA3FF",
		Equals:   "#49E209",
		Muted:    "8",
	},
	"mono": {
		Name:     "mono",
		Title:    "15",
		Border:   "8",
		History:  "7",
		Display:  "15",
		Error:    "15",
		Digit:    "7",
		Operator: "15",
		Action:   "15",
		Equals:   "15",
		Muted:    "8",
	},
}

// activeSkin is the skin used for rendering.
var activeSkin = builtinSkins["default"]

// LoadSkin resolves a skin by name: built-in skins first, then
// <configDir>/skins/<name>.yml. Colours missing from a file fall back to the
// default skin.
func LoadSkin(name, configDir string) (Skin, error) {
	if name == "" {
		name = "default"
	}
	if s, ok := builtinSkins[name]; ok {
		return s, nil
	}

	path := filepath.Join(configDir, "skins", name+".yml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Skin{}, fmt.Errorf("skin %q not found", name)
		}
		return Skin{}, fmt.Errorf("read skin: %w", err)
	}

	s := builtinSkins["default"]
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Skin{}, fmt.Errorf("parse skin %s: %w", path, err)
	}
	s.Name = name
	return s, nil
}

// InitializeSkin loads the named skin and makes it the active one. On error
// the active skin is left unchanged.
func InitializeSkin(name, configDir string) error {
	s, err := LoadSkin(name, configDir)
	if err != nil {
		return err
	}
	activeSkin = s
	return nil
}

func color(c string) lipgloss.Color {
	return lipgloss.Color(c)
}
