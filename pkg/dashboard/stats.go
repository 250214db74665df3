package dashboard

import (
	"math"
	"sort"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

const (
	RecentActivityLimit   = 15
	ToolLifeCriticalBelow = 20
	ToolLifeWarningBelow  = 50
)

type StatusCount struct {
	Status models.MachineStatus `json:"status"`
	Count  int                  `json:"count"`
}

type MachineProduction struct {
	Name     string `json:"name"`
	Produced int    `json:"produced"`
}

type MachineUtilization struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Status      models.MachineStatus `json:"status"`
	RunningTime float64              `json:"runningTime"`
	IdleTime    float64              `json:"idleTime"`
	Utilization float64              `json:"utilization"`
}

type ToolLife struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Healthy  int `json:"healthy"`
}

// Stats are the derived figures of the dashboard, machines and tools pages.
type Stats struct {
	TotalProduction     int                       `json:"totalProduction"`
	RunningMachines     int                       `json:"runningMachines"`
	AverageOEE          float64                   `json:"averageOee"`
	IssuesDetected      int                       `json:"issuesDetected"`
	StatusBreakdown     []StatusCount             `json:"statusBreakdown"`
	ProductionByMachine []MachineProduction       `json:"productionByMachine"`
	Utilization         []MachineUtilization      `json:"utilization"`
	ToolLife            ToolLife                  `json:"toolLife"`
	RecentActivity      []models.ProductionRecord `json:"recentActivity"`
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ComputeStats(s Snapshot) Stats {
	stats := Stats{
		TotalProduction: common.Reducer(s.ProductionRecords, func(acc int, r models.ProductionRecord) int {
			return acc + r.QuantityProduced
		}, 0),
		RunningMachines: len(common.Filter(s.Machines, func(m models.Machine) bool {
			return m.Status == models.MachineStatusRunning
		})),
		IssuesDetected: len(common.Filter(s.Machines, func(m models.Machine) bool {
			return m.Status == models.MachineStatusError || m.Status == models.MachineStatusMaintenance
		})),
	}

	if len(s.Machines) > 0 {
		total := common.Reducer(s.Machines, func(acc float64, m models.Machine) float64 {
			return acc + m.OEE
		}, 0)
		stats.AverageOEE = round1(total / float64(len(s.Machines)))
	}

	stats.StatusBreakdown = common.Mapper(models.MachineStatuses, func(status models.MachineStatus) StatusCount {
		return StatusCount{
			Status: status,
			Count: len(common.Filter(s.Machines, func(m models.Machine) bool {
				return m.Status == status
			})),
		}
	})

	produced := make(map[string]int)
	var order []string
	for _, r := range s.ProductionRecords {
		if _, ok := produced[r.MachineName]; !ok {
			order = append(order, r.MachineName)
		}
		produced[r.MachineName] += r.QuantityProduced
	}
	sort.Strings(order)
	stats.ProductionByMachine = common.Mapper(order, func(name string) MachineProduction {
		return MachineProduction{Name: name, Produced: produced[name]}
	})

	stats.Utilization = common.Mapper(s.Machines, func(m models.Machine) MachineUtilization {
		u := MachineUtilization{
			ID:          m.ID,
			Name:        m.Name,
			Status:      m.Status,
			RunningTime: m.RunningTime,
			IdleTime:    m.IdleTime,
		}
		if total := m.RunningTime + m.IdleTime; total > 0 {
			u.Utilization = round1(m.RunningTime / total * 100)
		}
		return u
	})

	for _, t := range s.Tools {
		switch {
		case t.RemainingLife < ToolLifeCriticalBelow:
			stats.ToolLife.Critical++
		case t.RemainingLife < ToolLifeWarningBelow:
			stats.ToolLife.Warning++
		default:
			stats.ToolLife.Healthy++
		}
	}

	recent := append([]models.ProductionRecord(nil), s.ProductionRecords...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp)
	})
	if len(recent) > RecentActivityLimit {
		recent = recent[:RecentActivityLimit]
	}
	stats.RecentActivity = recent
	if stats.RecentActivity == nil {
		stats.RecentActivity = []models.ProductionRecord{}
	}

	return stats
}
