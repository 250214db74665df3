package fallback

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalaiprof897-eng/management/pkg/models"
)

func TestGenerateShape(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	d := Generate(rand.New(rand.NewSource(1)), now)

	require.Len(t, d.Machines, MachineCount)
	require.Len(t, d.Tools, ToolCount)
	require.Len(t, d.ProductionRecords, ProductionRecordCount)

	assert.Equal(t, "CNC-001", d.Machines[0].ID)
	assert.Equal(t, "CNC Mill 8", d.Machines[7].Name)
	assert.Equal(t, "TOOL-1000", d.Tools[0].ID)
	assert.Equal(t, "End Mill 1mm", d.Tools[0].Type)
	assert.Equal(t, "End Mill 1mm", d.Tools[4].Type)
	assert.Equal(t, "End Mill 2mm", d.Tools[5].Type)
	assert.Equal(t, "End Mill 10mm", d.Tools[49].Type)
	assert.Equal(t, "Cabinet A-S1", d.Tools[0].Location)
	assert.Equal(t, "Cabinet B-S3", d.Tools[12].Location)
	assert.Equal(t, "Cabinet E-S10", d.Tools[49].Location)
}

func TestGenerateRanges(t *testing.T) {
	now := time.Now()
	for seed := int64(0); seed < 20; seed++ {
		d := Generate(rand.New(rand.NewSource(seed)), now)

		names := map[string]bool{}
		for _, m := range d.Machines {
			names[m.Name] = true
			assert.GreaterOrEqual(t, m.OEE, 65.0)
			assert.Less(t, m.OEE, 95.0)
			assert.GreaterOrEqual(t, m.RunningTime, 4.0)
			assert.Less(t, m.RunningTime, 24.0)
			if m.Status == models.MachineStatusRunning {
				assert.Less(t, m.IdleTime, 4.0)
				assert.NotNil(t, m.CurrentPart)
			} else {
				assert.Nil(t, m.CurrentPart)
			}
		}

		for _, tool := range d.Tools {
			if tool.Status == models.ToolStatusNeedsReplacement {
				assert.Less(t, tool.RemainingLife, 10.0)
			} else {
				assert.GreaterOrEqual(t, tool.RemainingLife, 20.0)
				assert.Less(t, tool.RemainingLife, 100.0)
			}
		}

		ids := map[string]bool{}
		for i, p := range d.ProductionRecords {
			assert.False(t, ids[p.ID], "duplicate production record id %s", p.ID)
			ids[p.ID] = true
			assert.True(t, names[p.MachineName])
			assert.GreaterOrEqual(t, p.QuantityProduced, 50)
			assert.Less(t, p.QuantityProduced, 100)
			assert.GreaterOrEqual(t, p.ScrapCount, 0)
			assert.Less(t, p.ScrapCount, 5)
			assert.Equal(t, now.Add(-time.Duration(i)*30*time.Minute), p.Timestamp)
		}
	}
}

func TestGenerateDeterministicPerSeed(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Generate(rand.New(rand.NewSource(42)), now)
	b := Generate(rand.New(rand.NewSource(42)), now)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different datasets (-a +b):\n%s", diff)
	}
}

func TestCloneDoesNotShare(t *testing.T) {
	d := NewDataset()
	c := d.Clone()

	c.Machines[0].Name = "changed"
	assert.NotEqual(t, "changed", d.Machines[0].Name)
	assert.Len(t, c.Tools, ToolCount)
}
