package checklist

import (
	"encoding/json"
	"os"
	"time"

	"WTISentinel/internal/model"
)

// LoadState reads the checklist state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*model.ChecklistState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &model.ChecklistState{Overrides: map[model.FactorID]bool{}}, nil
		}
		return nil, err
	}
	var state model.ChecklistState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Overrides == nil {
		state.Overrides = map[model.FactorID]bool{}
	}
	return &state, nil
}

// SaveState writes the checklist state to a JSON file.
func SaveState(filePath string, state *model.ChecklistState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
