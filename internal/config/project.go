package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Project is the optional `.p4fc.yaml` project file: built-in search-path
// roots and a strict-mode toggle, kept externally overridable rather than
// hardcoded. Absence of the file is not an error.
type Project struct {
	IncludeDirs []string `yaml:"include_dirs"`
	Strict      bool     `yaml:"strict"`
}

// LoadProject loads .env (via godotenv, termfx-morfx's convention) ahead of
// .p4fc.yaml (via yaml.v3, a funvibe-funxy direct dependency) from dir,
// returning zero-value defaults if neither file exists.
func LoadProject(dir string) (*Project, error) {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return nil, err
		}
	}

	p := &Project{}
	yamlPath := filepath.Join(dir, ".p4fc.yaml")
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ArenaSizeFromEnv reads P4FC_ARENA_SIZE (set via .env or the real
// environment) as the arena reservation hint in bytes, defaulting to the
// ~500KiB names.
func ArenaSizeFromEnv() int {
	const defaultSize = 512 * 1024
	v := os.Getenv("P4FC_ARENA_SIZE")
	if v == "" {
		return defaultSize
	}
	n := 0
	for _, c := range v {
		if c < '0' || c > '9' {
			return defaultSize
		}
		n = n*10 + int(c-'0')
	}
	if n <= 0 {
		return defaultSize
	}
	return n
}

// StrictFromEnv reads P4FC_STRICT as a boolean override.
func StrictFromEnv() (value bool, set bool) {
	v := os.Getenv("P4FC_STRICT")
	switch v {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	default:
		return false, false
	}
}
