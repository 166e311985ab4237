package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-site-backend/internal/domain"
)

// LoadSeedFile reads a YAML settings tree. A missing file is reported as
// ErrMissingConfiguration since the caller explicitly asked for it.
func LoadSeedFile(path string) (domain.ProjectSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: settings seed file %s does not exist", ErrMissingConfiguration, path)
		}
		return nil, fmt.Errorf("failed to read settings seed file: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse settings seed file: %w", err)
	}
	return domain.NewProjectSettings(tree), nil
}
