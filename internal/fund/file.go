package fund

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"PremiumSentinel/internal/model"
)

type catalogFile struct {
	Funds []model.FundProfile `yaml:"funds"`
}

// LoadProfiles reads a YAML fund list. Returns nil if the file doesn't exist.
func LoadProfiles(filePath string) ([]model.FundProfile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fund list: %w", err)
	}
	return f.Funds, nil
}

// SaveProfiles writes a YAML fund list.
func SaveProfiles(filePath string, profiles []model.FundProfile) error {
	data, err := yaml.Marshal(catalogFile{Funds: profiles})
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
