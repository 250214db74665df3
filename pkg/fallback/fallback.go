// Package fallback generates the synthetic dataset shown while the backend
// collections are unavailable.
package fallback

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kalaiprof897-eng/management/pkg/models"
)

const (
	MachineCount          = 8
	ToolCount             = 50
	ProductionRecordCount = 200

	recordSpacing = 30 * time.Minute
)

// Dataset is one generated set of core collections. Time logs are user
// authored and have no synthetic counterpart.
type Dataset struct {
	Machines          []models.Machine
	Tools             []models.Tool
	ProductionRecords []models.ProductionRecord
}

// Generate builds a dataset of fixed shape with values drawn from r.
// Production timestamps walk back from now in 30 minute steps.
func Generate(r *rand.Rand, now time.Time) Dataset {
	machines := make([]models.Machine, MachineCount)
	for i := range machines {
		machines[i] = generateMachine(r, i)
	}

	tools := make([]models.Tool, ToolCount)
	for i := range tools {
		tools[i] = generateTool(r, i)
	}

	records := make([]models.ProductionRecord, ProductionRecordCount)
	for i := range records {
		machine := machines[r.Intn(len(machines))]
		records[i] = models.ProductionRecord{
			ID:               fmt.Sprintf("PR-%d-%d", now.UnixMilli()-int64(i)*100000, i),
			PartID:           fmt.Sprintf("PART-%d", r.Intn(1000)),
			MachineName:      machine.Name,
			QuantityProduced: r.Intn(50) + 50,
			ScrapCount:       r.Intn(5),
			CycleTime:        float64(r.Intn(60) + 30),
			Timestamp:        now.Add(-time.Duration(i) * recordSpacing),
		}
	}

	return Dataset{Machines: machines, Tools: tools, ProductionRecords: records}
}

func generateMachine(r *rand.Rand, i int) models.Machine {
	status := models.MachineStatuses[r.Intn(len(models.MachineStatuses))]

	idle := r.Intn(24)
	if status == models.MachineStatusRunning {
		idle = r.Intn(4)
	}

	m := models.Machine{
		ID:          fmt.Sprintf("CNC-00%d", i+1),
		Name:        fmt.Sprintf("CNC Mill %d", i+1),
		Status:      status,
		OEE:         float64(r.Intn(30) + 65),
		RunningTime: float64(r.Intn(20) + 4),
		IdleTime:    float64(idle),
	}
	if status == models.MachineStatusRunning {
		part := fmt.Sprintf("PART-%d", r.Intn(1000))
		m.CurrentPart = &part
	}
	return m
}

func generateTool(r *rand.Rand, i int) models.Tool {
	status := models.ToolStatuses[r.Intn(len(models.ToolStatuses))]

	life := r.Intn(80) + 20
	if status == models.ToolStatusNeedsReplacement {
		life = r.Intn(10)
	}

	return models.Tool{
		ID:            fmt.Sprintf("TOOL-%d", 1000+i),
		Type:          fmt.Sprintf("End Mill %dmm", (i+5)/5),
		RemainingLife: float64(life),
		Location:      fmt.Sprintf("Cabinet %c-S%d", 'A'+rune(i/10), i%10+1),
		Status:        status,
	}
}

// NewDataset generates the dataset for one application run.
func NewDataset() Dataset {
	return Generate(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now())
}

// Clone returns a copy whose slices can be handed out without sharing.
func (d Dataset) Clone() Dataset {
	return Dataset{
		Machines:          append([]models.Machine(nil), d.Machines...),
		Tools:             append([]models.Tool(nil), d.Tools...),
		ProductionRecords: append([]models.ProductionRecord(nil), d.ProductionRecords...),
	}
}
