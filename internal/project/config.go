package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	ShearDir     = ".shear"
	SettingsFile = "config.yaml"
	CacheDir     = "cache"
	IndexDir     = "index"
)

// Settings represents the .shear/config.yaml tool configuration.
type Settings struct {
	MaxFileLines int    `yaml:"max_file_lines,omitempty" json:"max_file_lines,omitempty"`
	MaxDepth     int    `yaml:"max_depth,omitempty" json:"max_depth,omitempty"`
	AnalyzerPath string `yaml:"analyzer_path,omitempty" json:"analyzer_path,omitempty"`
	CacheEnabled *bool  `yaml:"cache_enabled,omitempty" json:"cache_enabled,omitempty"`
}

// Project represents an active shear project rooted at a .shear directory.
type Project struct {
	RootPath string
	Settings *Settings
}

// Active holds the currently active project
var Active *Project

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		MaxFileLines: 5000,
		MaxDepth:     3,
	}
}

// CacheOn reports whether the parse cache is enabled. It defaults to true
// when the setting is absent.
func (s *Settings) CacheOn() bool {
	if s.CacheEnabled == nil {
		return true
	}
	return *s.CacheEnabled
}

// FindProjectRoot looks for a .shear directory starting from path and going up
func FindProjectRoot(startPath string) (string, error) {
	path := startPath
	for {
		shearPath := filepath.Join(path, ShearDir)
		if info, err := os.Stat(shearPath); err == nil && info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("no .shear directory found (searched from %s to root)", startPath)
		}
		path = parent
	}
}

// GetShearPath returns the path to the .shear directory
func (p *Project) GetShearPath() string {
	return filepath.Join(p.RootPath, ShearDir)
}

// GetSettingsPath returns the path to config.yaml
func (p *Project) GetSettingsPath() string {
	return filepath.Join(p.GetShearPath(), SettingsFile)
}

// GetCachePath returns the path to the parse cache directory
func (p *Project) GetCachePath() string {
	return filepath.Join(p.GetShearPath(), CacheDir)
}

// GetIndexPath returns the path to the search index directory
func (p *Project) GetIndexPath() string {
	return filepath.Join(p.GetShearPath(), IndexDir)
}

// Load loads the tool settings from disk, filling defaults for absent fields.
func (p *Project) Load() error {
	settings := DefaultSettings()

	data, err := os.ReadFile(p.GetSettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			p.Settings = settings
			return nil
		}
		return fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	if settings.MaxFileLines <= 0 {
		settings.MaxFileLines = 5000
	}
	if settings.MaxDepth <= 0 {
		settings.MaxDepth = 3
	}

	p.Settings = settings
	return nil
}

// Save saves the tool settings to disk
func (p *Project) Save() error {
	data, err := yaml.Marshal(p.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(p.GetSettingsPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// Initialize creates a new .shear project structure
func Initialize(rootPath string) (*Project, error) {
	shearPath := filepath.Join(rootPath, ShearDir)

	// Check if already initialized
	if _, err := os.Stat(shearPath); err == nil {
		return nil, fmt.Errorf("project already initialized at %s", shearPath)
	}

	dirs := []string{
		shearPath,
		filepath.Join(shearPath, CacheDir),
		filepath.Join(shearPath, IndexDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	project := &Project{
		RootPath: rootPath,
		Settings: DefaultSettings(),
	}

	if err := project.Save(); err != nil {
		return nil, err
	}

	return project, nil
}

// Activate loads and activates a project
func Activate(path string) (*Project, error) {
	rootPath, err := FindProjectRoot(path)
	if err != nil {
		return nil, err
	}

	project := &Project{
		RootPath: rootPath,
	}

	if err := project.Load(); err != nil {
		return nil, err
	}

	Active = project
	return project, nil
}

// EnsureActive returns the active project or activates from the current
// directory. When no project exists it falls back to defaults rooted at the
// working directory so the tool can run without initialization.
func EnsureActive() (*Project, error) {
	if Active != nil {
		return Active, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	project, err := Activate(cwd)
	if err != nil {
		return &Project{RootPath: cwd, Settings: DefaultSettings()}, nil
	}
	return project, nil
}
