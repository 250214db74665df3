package dashboard

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/kalaiprof897-eng/management/pkg/fallback"
	"github.com/kalaiprof897-eng/management/pkg/gateway"
	"github.com/kalaiprof897-eng/management/pkg/gateway/mocks"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

var (
	testIdentity = gateway.Identity{UserID: "user-1", AccessToken: "token-1"}
	testFallback = fallback.Generate(rand.New(rand.NewSource(7)), time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	errMissing = errors.New("no such table")
	errNetwork = errors.New("connection refused")
)

func realMachines() []models.Machine {
	return []models.Machine{
		{ID: "M-1", Name: "Lathe", Status: models.MachineStatusRunning, OEE: 80, RunningTime: 9, IdleTime: 1},
		{ID: "M-2", Name: "Mill", Status: models.MachineStatusError, OEE: 61, RunningTime: 0, IdleTime: 0},
	}
}

func realTools() []models.Tool {
	return []models.Tool{{ID: "T-1", Type: "Drill", RemainingLife: 15, Location: "Bay 1", Status: models.ToolStatusActive}}
}

func realRecords() []models.ProductionRecord {
	return []models.ProductionRecord{{ID: "R-1", PartID: "P-1", MachineName: "Lathe", QuantityProduced: 40, ScrapCount: 1, CycleTime: 30, Timestamp: time.Now()}}
}

func realTimeLogs() []models.CncTimeLog {
	return []models.CncTimeLog{{ID: "L-1", MachineName: "Lathe", WorkOrderNumber: "WO-9", WorkPieceName: "Shaft", Quantity: 3, UserID: testIdentity.UserID}}
}

type readOutcome struct {
	machines, tools, records, timeLogs error
}

func missing(c gateway.Collection) error {
	return gateway.Classify(c, errMissing)
}

func failing(c gateway.Collection) error {
	return gateway.Classify(c, errNetwork)
}

func pick[T any](err error, rows []T) []T {
	if err != nil {
		return nil
	}
	return rows
}

// expectCycle sets up one full round of reads.
func expectCycle(g *mocks.MockGateway, out readOutcome) {
	g.EXPECT().ReadMachines(gomock.Any(), testIdentity).
		Return(pick(out.machines, realMachines()), out.machines).Times(1)
	g.EXPECT().ReadTools(gomock.Any(), testIdentity).
		Return(pick(out.tools, realTools()), out.tools).Times(1)
	g.EXPECT().ReadProductionRecords(gomock.Any(), testIdentity).
		Return(pick(out.records, realRecords()), out.records).Times(1)
	g.EXPECT().ReadCncTimeLogs(gomock.Any(), testIdentity).
		Return(pick(out.timeLogs, realTimeLogs()), out.timeLogs).Times(1)
}

func validInput() TimeLogInput {
	in := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return TimeLogInput{
		MachineName:     "Lathe",
		WorkOrderNumber: "WO-10",
		WorkPieceName:   "Flange",
		Quantity:        4,
		InTime:          in,
		OutTime:         in.Add(90 * time.Minute),
	}
}
