package manifest

import (
	"fmt"
	"time"

	"github.com/dtnitsch/lne-nutrition/pkg/storage"
	"gopkg.in/yaml.v3"
)

// GenerateSummary stamps the manifest and saves it as YAML at path.
func GenerateSummary(m RunManifest, path string, s *storage.Storage) error {
	if m.GeneratedAt == "" {
		m.GeneratedAt = time.Now().Format(time.RFC3339)
	}
	m.TotalMeals = 0
	for _, sheet := range m.Sheets {
		m.TotalMeals += sheet.Meals
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFile(path, data); err != nil {
		return fmt.Errorf("error saving manifest: %w", err)
	}
	return nil
}
