package dashboard

import (
	"errors"
	"sort"
	"strings"
	"time"

	z "github.com/Oudwins/zog"

	"github.com/kalaiprof897-eng/management/pkg/models"
)

const (
	MessageFillRequired        = "Please fill out all required fields."
	MessageTimeLogAdded        = "CNC time log added successfully!"
	MessageDatabaseUpdateNeeds = "Database update required for this feature. Please go to the Setup page."
)

// ErrTimeLogUnavailable rejects a time log before any backend call when the
// collection is known to be missing.
var ErrTimeLogUnavailable = errors.New(MessageDatabaseUpdateNeeds)

// ValidationError is scoped to the submitted form.
type ValidationError struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

type TimeLogInput struct {
	MachineName     string    `json:"machineName"`
	WorkOrderNumber string    `json:"workOrderNumber"`
	WorkPieceName   string    `json:"workPieceName"`
	Quantity        int       `json:"quantity"`
	SiNo            string    `json:"siNo"`
	InTime          time.Time `json:"inTime"`
	OutTime         time.Time `json:"outTime"`
}

var timeLogSchema = z.Struct(z.Shape{
	"MachineName":     z.String().Min(1).Required(),
	"WorkOrderNumber": z.String().Min(1).Required(),
	"WorkPieceName":   z.String().Min(1).Required(),
	"Quantity":        z.Int().GT(0).Required(),
	"InTime":          z.Time().Required(),
	"OutTime":         z.Time().Required(),
})

// Validate trims the text fields and checks every required field is present.
func (in *TimeLogInput) Validate() error {
	in.MachineName = strings.TrimSpace(in.MachineName)
	in.WorkOrderNumber = strings.TrimSpace(in.WorkOrderNumber)
	in.WorkPieceName = strings.TrimSpace(in.WorkPieceName)
	in.SiNo = strings.TrimSpace(in.SiNo)

	issues := timeLogSchema.Validate(in)

	var fields []string
	for field := range issues {
		if !strings.HasPrefix(field, "$") {
			fields = append(fields, field)
		}
	}
	if in.InTime.IsZero() && !contains(fields, "InTime") {
		fields = append(fields, "InTime")
	}
	if in.OutTime.IsZero() && !contains(fields, "OutTime") {
		fields = append(fields, "OutTime")
	}

	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &ValidationError{Message: MessageFillRequired, Fields: fields}
}

func (in *TimeLogInput) toModel() *models.CncTimeLog {
	return &models.CncTimeLog{
		MachineName:     in.MachineName,
		WorkOrderNumber: in.WorkOrderNumber,
		WorkPieceName:   in.WorkPieceName,
		Quantity:        in.Quantity,
		SiNo:            in.SiNo,
		InTime:          in.InTime,
		OutTime:         in.OutTime,
	}
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
