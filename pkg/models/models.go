package models

import "time"

type MachineStatus string

const (
	MachineStatusRunning     MachineStatus = "Running"
	MachineStatusIdle        MachineStatus = "Idle"
	MachineStatusMaintenance MachineStatus = "Maintenance"
	MachineStatusError       MachineStatus = "Error"
)

// MachineStatuses lists every status in display order.
var MachineStatuses = []MachineStatus{
	MachineStatusRunning,
	MachineStatusIdle,
	MachineStatusMaintenance,
	MachineStatusError,
}

type ToolStatus string

const (
	ToolStatusActive           ToolStatus = "Active"
	ToolStatusInactive         ToolStatus = "Inactive"
	ToolStatusNeedsReplacement ToolStatus = "Needs Replacement"
)

var ToolStatuses = []ToolStatus{
	ToolStatusActive,
	ToolStatusInactive,
	ToolStatusNeedsReplacement,
}

type Machine struct {
	ID          string        `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Status      MachineStatus `gorm:"type:varchar(20);not null;check:status IN ('Running','Idle','Maintenance','Error')" json:"status"`
	OEE         float64       `gorm:"column:oee;not null" json:"oee"`
	RunningTime float64       `gorm:"not null" json:"runningTime"`
	IdleTime    float64       `gorm:"not null" json:"idleTime"`
	CurrentPart *string       `json:"currentPart"`
}

type Tool struct {
	ID            string     `gorm:"primaryKey" json:"id"`
	Type          string     `gorm:"not null" json:"type"`
	RemainingLife float64    `gorm:"not null" json:"remainingLife"`
	Location      string     `gorm:"not null" json:"location"`
	Status        ToolStatus `gorm:"type:varchar(20);not null;check:status IN ('Active','Inactive','Needs Replacement')" json:"status"`
}

type ProductionRecord struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	PartID           string    `gorm:"not null" json:"partId"`
	MachineName      string    `gorm:"not null" json:"machineName"`
	QuantityProduced int       `gorm:"not null;check:quantity_produced >= 0" json:"quantityProduced"`
	ScrapCount       int       `gorm:"not null;check:scrap_count >= 0" json:"scrapCount"`
	CycleTime        float64   `gorm:"not null" json:"cycleTime"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
}

type CncTimeLog struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	MachineName     string    `gorm:"not null" json:"machineName"`
	WorkOrderNumber string    `gorm:"not null" json:"workOrderNumber"`
	WorkPieceName   string    `gorm:"not null" json:"workPieceName"`
	Quantity        int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	SiNo            string    `json:"siNo"`
	InTime          time.Time `gorm:"not null" json:"inTime"`
	OutTime         time.Time `gorm:"not null" json:"outTime"`
	UserID          string    `gorm:"index" json:"userId,omitempty"`
	CreatedAt       time.Time `json:"-"`
}
