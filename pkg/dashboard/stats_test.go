package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalaiprof897-eng/management/pkg/models"
)

func TestComputeStats(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Snapshot{
		Machines: []models.Machine{
			{ID: "M-1", Name: "A", Status: models.MachineStatusRunning, OEE: 80, RunningTime: 9, IdleTime: 1},
			{ID: "M-2", Name: "B", Status: models.MachineStatusRunning, OEE: 75.5, RunningTime: 6, IdleTime: 2},
			{ID: "M-3", Name: "C", Status: models.MachineStatusMaintenance, OEE: 66, RunningTime: 0, IdleTime: 0},
			{ID: "M-4", Name: "D", Status: models.MachineStatusError, OEE: 70},
		},
		Tools: []models.Tool{
			{RemainingLife: 5}, {RemainingLife: 19.9}, {RemainingLife: 20}, {RemainingLife: 49}, {RemainingLife: 50}, {RemainingLife: 99},
		},
	}
	for i := range 20 {
		s.ProductionRecords = append(s.ProductionRecords, models.ProductionRecord{
			ID:               fmt.Sprintf("R-%d", i),
			MachineName:      []string{"B", "A"}[i%2],
			QuantityProduced: 10,
			Timestamp:        now.Add(time.Duration(i) * time.Minute),
		})
	}

	stats := ComputeStats(s)

	assert.Equal(t, 200, stats.TotalProduction)
	assert.Equal(t, 2, stats.RunningMachines)
	assert.Equal(t, 72.9, stats.AverageOEE)
	assert.Equal(t, 2, stats.IssuesDetected)

	assert.Equal(t, []StatusCount{
		{Status: models.MachineStatusRunning, Count: 2},
		{Status: models.MachineStatusIdle, Count: 0},
		{Status: models.MachineStatusMaintenance, Count: 1},
		{Status: models.MachineStatusError, Count: 1},
	}, stats.StatusBreakdown)

	assert.Equal(t, []MachineProduction{{Name: "A", Produced: 100}, {Name: "B", Produced: 100}}, stats.ProductionByMachine)

	require.Len(t, stats.Utilization, 4)
	assert.Equal(t, 90.0, stats.Utilization[0].Utilization)
	assert.Equal(t, 75.0, stats.Utilization[1].Utilization)
	assert.Equal(t, 0.0, stats.Utilization[2].Utilization)

	assert.Equal(t, ToolLife{Critical: 2, Warning: 2, Healthy: 2}, stats.ToolLife)

	require.Len(t, stats.RecentActivity, RecentActivityLimit)
	assert.Equal(t, "R-19", stats.RecentActivity[0].ID)
	assert.Equal(t, "R-5", stats.RecentActivity[14].ID)
	assert.Equal(t, "R-0", s.ProductionRecords[0].ID)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(Snapshot{})

	assert.Zero(t, stats.TotalProduction)
	assert.Zero(t, stats.AverageOEE)
	assert.Len(t, stats.StatusBreakdown, len(models.MachineStatuses))
	assert.NotNil(t, stats.RecentActivity)
	assert.Empty(t, stats.RecentActivity)
}

func TestComputeStatsOnFallback(t *testing.T) {
	stats := ComputeStats(FallbackSnapshot(StateSetupRequired, testFallback))

	assert.Len(t, stats.Utilization, 8)
	assert.Equal(t, 50, stats.ToolLife.Critical+stats.ToolLife.Warning+stats.ToolLife.Healthy)
	assert.Len(t, stats.RecentActivity, RecentActivityLimit)
}
