package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/handicap-lab/internal/models"
)

// strategiesDocument is the on-disk shape of a strategy definitions file
type strategiesDocument struct {
	Strategies []models.StrategyDefinition `json:"strategies"`
}

// LoadStrategies reads strategy definitions from a JSON file, disabled ones
// included. Structural problems with the file itself are returned as errors;
// per-strategy validation is left to the evaluation run so one bad
// definition does not block the rest.
func LoadStrategies(path string) ([]models.StrategyDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read strategies file %s: %w", path, err)
	}

	var doc strategiesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse strategies file %s: %w", path, err)
	}

	if len(doc.Strategies) == 0 {
		return nil, fmt.Errorf("strategies file %s contains no strategies", path)
	}

	return doc.Strategies, nil
}
