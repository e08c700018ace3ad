package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/de-tools/goal-master/pkg/adapters"
	"github.com/de-tools/goal-master/pkg/models/api"
	"github.com/de-tools/goal-master/pkg/models/domain"
	"github.com/google/uuid"
)

// LoadSnapshotFile reads a JSON array of goals as exported by the API.
// Goals without an id get a fresh one and a missing status reads as Pending.
func LoadSnapshotFile(path string) ([]domain.GoalSnapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var records []api.Goal
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %s: %w", path, err)
	}

	snapshots := make([]domain.GoalSnapshot, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if r.Status == "" {
			r.Status = string(domain.StatusPending)
		}
		snapshots = append(snapshots, adapters.MapApiGoalToDomain(r))
	}
	return snapshots, nil
}
