package mockapi

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"insured-registration/internal/models"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the reference data served by the mock API.
// Models are keyed by "brand/year", versions by "brand/year/model" and cities by province id.
type Fixtures struct {
	Provinces      []models.Province                  `yaml:"provinces"`
	Cities         map[string][]models.City           `yaml:"cities"`
	Brands         []models.VehicleBrand              `yaml:"brands"`
	Models         map[string][]models.VehicleModel   `yaml:"models"`
	Versions       map[string][]models.VehicleVersion `yaml:"versions"`
	Coverages      []models.Coverage                  `yaml:"coverages"`
	TakenUsernames []string                           `yaml:"taken_usernames"`
}

// DefaultFixtures returns the embedded fixture set.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads a fixture file. An empty path yields the embedded set.
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures %s: %w", path, err)
	}
	return ParseFixtures(data)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}
