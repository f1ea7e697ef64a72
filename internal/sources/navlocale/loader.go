package navlocale

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fangbw17/sidebar/internal/domain"
)

// ErrUnsupportedFormat is returned for locale files that are neither JSON nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported locale file format")

// Loader handles loading and parsing of a navigation locale file
type Loader struct {
	filePath string
}

// NewLoader creates a new locale file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the locale file. The format is picked from the
// file extension. A file without a sidebar section yields an empty descriptor.
func (l *Loader) Load() (LocaleFile, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return LocaleFile{}, fmt.Errorf("failed to read locale file: %w", err)
	}
	return Parse(data, filepath.Ext(l.filePath))
}

// Parse decodes locale data in the format named by ext (".json", ".yaml", ".yml").
func Parse(data []byte, ext string) (LocaleFile, error) {
	var file LocaleFile

	// Empty documents are valid and carry no navigation.
	if len(bytes.TrimSpace(data)) > 0 {
		switch strings.ToLower(ext) {
		case ".json":
			if err := json.Unmarshal(data, &file); err != nil {
				return LocaleFile{}, fmt.Errorf("failed to parse locale json: %w", err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, &file); err != nil {
				return LocaleFile{}, fmt.Errorf("failed to parse locale yaml: %w", err)
			}
		default:
			return LocaleFile{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
		}
	}

	if file.Sidebar == nil {
		file.Sidebar = domain.NavigationDescriptor{}
	}
	return file, nil
}
