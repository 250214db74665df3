package dashboard

import (
	"strings"
	"time"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/fallback"
	"github.com/kalaiprof897-eng/management/pkg/gateway"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

type State string

const (
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateSetupRequired State = "setup_required"
	StateDegradedError State = "degraded_error"
	// StateSignedOut is shown to callers without a session.
	StateSignedOut State = "signed_out"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

type CollectionStatus string

const (
	CollectionOK      CollectionStatus = "ok"
	CollectionMissing CollectionStatus = "missing"
	CollectionFailed  CollectionStatus = "error"
)

type Notification struct {
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}

// Snapshot is everything a view needs to render: the displayed collections
// and the flags that decide which banners are visible.
type Snapshot struct {
	State              State                     `json:"state"`
	Loading            bool                      `json:"loading"`
	Machines           []models.Machine          `json:"machines"`
	Tools              []models.Tool             `json:"tools"`
	ProductionRecords  []models.ProductionRecord `json:"productionRecords"`
	CncTimeLogs        []models.CncTimeLog       `json:"cncTimeLogs"`
	Synthetic          bool                      `json:"synthetic"`
	SetupRequired      bool                      `json:"setupRequired"`
	TimeLogUnavailable bool                      `json:"timeLogUnavailable"`
	Error              string                    `json:"error,omitempty"`
	Notification       *Notification             `json:"notification,omitempty"`
	UpdatedAt          time.Time                 `json:"updatedAt"`

	// Collections is the read outcome per collection of the last cycle.
	Collections map[gateway.Collection]CollectionStatus `json:"collections,omitempty"`
}

// CanAddTimeLog is false whenever the time log collection cannot take writes.
func (s Snapshot) CanAddTimeLog() bool {
	return !s.SetupRequired && !s.TimeLogUnavailable
}

func (s Snapshot) clone() Snapshot {
	c := s
	c.Machines = append([]models.Machine(nil), s.Machines...)
	c.Tools = append([]models.Tool(nil), s.Tools...)
	c.ProductionRecords = append([]models.ProductionRecord(nil), s.ProductionRecords...)
	c.CncTimeLogs = append([]models.CncTimeLog{}, s.CncTimeLogs...)
	if s.Notification != nil {
		n := *s.Notification
		c.Notification = &n
	}
	if s.Collections != nil {
		c.Collections = make(map[gateway.Collection]CollectionStatus, len(s.Collections))
		for k, v := range s.Collections {
			c.Collections[k] = v
		}
	}
	return c
}

// FallbackSnapshot shows the synthetic core data with no time logs.
func FallbackSnapshot(state State, fb fallback.Dataset) Snapshot {
	data := fb.Clone()
	return Snapshot{
		State:             state,
		Machines:          data.Machines,
		Tools:             data.Tools,
		ProductionRecords: data.ProductionRecords,
		CncTimeLogs:       []models.CncTimeLog{},
		Synthetic:         true,
	}
}

// Reconcile decides what one fetch cycle displays. It is a pure function of
// the settled reads and the fallback dataset.
func Reconcile(results gateway.ReadResults, fb fallback.Dataset) Snapshot {
	s := reconcile(results, fb)
	s.Collections = map[gateway.Collection]CollectionStatus{
		gateway.CollectionMachines:          collectionStatus(results.Machines.Err),
		gateway.CollectionTools:             collectionStatus(results.Tools.Err),
		gateway.CollectionProductionRecords: collectionStatus(results.ProductionRecords.Err),
		gateway.CollectionCncTimeLogs:       collectionStatus(results.CncTimeLogs.Err),
	}
	return s
}

func collectionStatus(err error) CollectionStatus {
	switch {
	case err == nil:
		return CollectionOK
	case gateway.IsMissingCollection(err):
		return CollectionMissing
	default:
		return CollectionFailed
	}
}

func reconcile(results gateway.ReadResults, fb fallback.Dataset) Snapshot {
	coreErrs := results.CoreErrors()

	for _, err := range coreErrs {
		if gateway.IsMissingCollection(err) {
			s := FallbackSnapshot(StateSetupRequired, fb)
			s.SetupRequired = true
			return s
		}
	}

	if len(coreErrs) > 0 {
		msgs := common.Mapper(coreErrs, gateway.Message)
		s := FallbackSnapshot(StateDegradedError, fb)
		s.Error = strings.Join(msgs, ", ")
		return s
	}

	s := Snapshot{
		State:             StateReady,
		Machines:          nonNil(results.Machines.Rows),
		Tools:             nonNil(results.Tools.Rows),
		ProductionRecords: nonNil(results.ProductionRecords.Rows),
		CncTimeLogs:       nonNil(results.CncTimeLogs.Rows),
	}

	if err := results.CncTimeLogs.Err; err != nil {
		s.CncTimeLogs = []models.CncTimeLog{}
		s.TimeLogUnavailable = gateway.IsMissingCollection(err)
	}

	return s
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
