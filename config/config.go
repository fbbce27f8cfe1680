package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileNames are probed, in order, when no config path is given.
var DefaultFileNames = []string{".changed-files.json", ".changed-files.yaml", ".changed-files.yml"}

// Config is the root configuration structure.
type Config struct {
	Fetch   FetchConfig  `json:"fetch" yaml:"fetch"`
	Filters FilterConfig `json:"filters" yaml:"filters"`
	Output  OutputConfig `json:"output" yaml:"output"`
	Diff    DiffConfig   `json:"diff" yaml:"diff"`
}

// FetchConfig holds history deepening options.
type FetchConfig struct {
	Depth  int    `json:"depth" yaml:"depth"`   // Default: 50
	Remote string `json:"remote" yaml:"remote"` // Default: "origin"
}

// FilterConfig holds path glob options.
type FilterConfig struct {
	Files                              []string `json:"files" yaml:"files"`
	FilesIgnore                        []string `json:"filesIgnore" yaml:"filesIgnore"`
	FilesSeparator                     string   `json:"filesSeparator" yaml:"filesSeparator"`
	FilesFromSourceFileSeparator       string   `json:"filesFromSourceFileSeparator" yaml:"filesFromSourceFileSeparator"`
	FilesIgnoreSeparator               string   `json:"filesIgnoreSeparator" yaml:"filesIgnoreSeparator"`
	FilesIgnoreFromSourceFileSeparator string   `json:"filesIgnoreFromSourceFileSeparator" yaml:"filesIgnoreFromSourceFileSeparator"`
	MatchDirectories                   bool     `json:"matchDirectories" yaml:"matchDirectories"` // Default: true
}

// OutputConfig holds result formatting options.
type OutputConfig struct {
	Format                       string `json:"format" yaml:"format"`       // console, json, csv, markdown or ci
	Separator                    string `json:"separator" yaml:"separator"` // Default: " "
	OldNewSeparator              string `json:"oldNewSeparator" yaml:"oldNewSeparator"`
	OldNewFilesSeparator         string `json:"oldNewFilesSeparator" yaml:"oldNewFilesSeparator"`
	IncludeAllOldNewRenamedFiles bool   `json:"includeAllOldNewRenamedFiles" yaml:"includeAllOldNewRenamedFiles"`
	DirNames                     bool   `json:"dirNames" yaml:"dirNames"`
	DirNamesMaxDepth             int    `json:"dirNamesMaxDepth" yaml:"dirNamesMaxDepth"`
	DirNamesExcludeRoot          bool   `json:"dirNamesExcludeRoot" yaml:"dirNamesExcludeRoot"`
	JSON                         bool   `json:"json" yaml:"json"`
	WriteOutputFiles             bool   `json:"writeOutputFiles" yaml:"writeOutputFiles"`
	OutputDir                    string `json:"outputDir" yaml:"outputDir"` // Default: ".github/outputs"
}

// DiffConfig holds diff backend options.
type DiffConfig struct {
	Engine   string `json:"engine" yaml:"engine"`     // go-git or git
	Relative string `json:"relative" yaml:"relative"` // Report paths relative to this directory
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Depth:  50,
			Remote: "origin",
		},
		Filters: FilterConfig{
			Files:                              []string{},
			FilesIgnore:                        []string{},
			FilesSeparator:                     "\n",
			FilesFromSourceFileSeparator:       "\n",
			FilesIgnoreSeparator:               "\n",
			FilesIgnoreFromSourceFileSeparator: "\n",
			MatchDirectories:                   true,
		},
		Output: OutputConfig{
			Format:               "console",
			Separator:            " ",
			OldNewSeparator:      ",",
			OldNewFilesSeparator: " ",
			OutputDir:            ".github/outputs",
		},
		Diff: DiffConfig{
			Engine: "go-git",
		},
	}
}

// Validate checks option ranges and enumerations.
func (c *Config) Validate() error {
	if c.Fetch.Depth < 0 {
		return fmt.Errorf("fetch.depth must be >= 0, got %d", c.Fetch.Depth)
	}
	if c.Output.DirNamesMaxDepth < 0 {
		return fmt.Errorf("output.dirNamesMaxDepth must be >= 0, got %d", c.Output.DirNamesMaxDepth)
	}
	switch c.Output.Format {
	case "console", "json", "csv", "markdown", "ci":
	default:
		return fmt.Errorf("output.format must be one of console, json, csv, markdown, ci, got %q", c.Output.Format)
	}
	switch c.Diff.Engine {
	case "", "go-git", "git":
	default:
		return fmt.Errorf("diff.engine must be go-git or git, got %q", c.Diff.Engine)
	}
	return nil
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = findDefaultFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file. The format follows the extension.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func findDefaultFile() string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, home)
	} else if envHome := os.Getenv("HOME"); envHome != "" {
		dirs = append(dirs, envHome)
	}
	for _, dir := range dirs {
		for _, name := range DefaultFileNames {
			p := filepath.Join(dir, name)
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
