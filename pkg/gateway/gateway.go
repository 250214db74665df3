// Package gateway reads and writes the four backend collections and maps every
// backend failure onto a typed CollectionError.
package gateway

import (
	"context"

	"github.com/kalaiprof897-eng/management/pkg/db"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

type Collection string

const (
	CollectionMachines          Collection = db.TableMachines
	CollectionTools             Collection = db.TableTools
	CollectionProductionRecords Collection = db.TableProductionRecords
	CollectionCncTimeLogs       Collection = db.TableCncTimeLogs
)

// CoreCollections are the collections the dashboard cannot work without.
var CoreCollections = []Collection{CollectionMachines, CollectionTools, CollectionProductionRecords}

// Identity is the signed in caller on whose behalf the backend is queried.
type Identity struct {
	UserID      string
	AccessToken string
}

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks . Gateway

// Gateway is the data collaborator. Every non-nil error it returns is a
// *CollectionError.
type Gateway interface {
	ReadMachines(ctx context.Context, id Identity) ([]models.Machine, error)
	ReadTools(ctx context.Context, id Identity) ([]models.Tool, error)
	ReadProductionRecords(ctx context.Context, id Identity) ([]models.ProductionRecord, error)
	ReadCncTimeLogs(ctx context.Context, id Identity) ([]models.CncTimeLog, error)
	InsertCncTimeLog(ctx context.Context, id Identity, log *models.CncTimeLog) (*models.CncTimeLog, error)
}
