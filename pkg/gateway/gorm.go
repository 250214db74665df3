package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/db"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

// ErrNotAuthorized mirrors the backend policy rejecting a write without an owner.
var ErrNotAuthorized = errors.New("new row violates row-level security policy for table \"cnc_time_logs\"")

// GormGateway serves the collections from a local database. Time logs are
// scoped to their owner the way the hosted backend's policies scope them.
type GormGateway struct {
	Db *db.DB
}

func NewGormGateway(d *db.DB) *GormGateway {
	return &GormGateway{Db: d}
}

func find[T any](ctx context.Context, conn *gorm.DB, collection Collection, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	rows := []T{}
	if err := scope(conn.WithContext(ctx)).Find(&rows).Error; err != nil {
		return nil, Classify(collection, err)
	}
	return rows, nil
}

func (g *GormGateway) ReadMachines(ctx context.Context, _ Identity) ([]models.Machine, error) {
	return find[models.Machine](ctx, g.Db.Conn, CollectionMachines, func(q *gorm.DB) *gorm.DB {
		return q.Order("id")
	})
}

func (g *GormGateway) ReadTools(ctx context.Context, _ Identity) ([]models.Tool, error) {
	return find[models.Tool](ctx, g.Db.Conn, CollectionTools, func(q *gorm.DB) *gorm.DB {
		return q.Order("id")
	})
}

func (g *GormGateway) ReadProductionRecords(ctx context.Context, _ Identity) ([]models.ProductionRecord, error) {
	return find[models.ProductionRecord](ctx, g.Db.Conn, CollectionProductionRecords, func(q *gorm.DB) *gorm.DB {
		return q.Order("timestamp desc")
	})
}

func (g *GormGateway) ReadCncTimeLogs(ctx context.Context, id Identity) ([]models.CncTimeLog, error) {
	return find[models.CncTimeLog](ctx, g.Db.Conn, CollectionCncTimeLogs, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", id.UserID).Order("created_at desc")
	})
}

func (g *GormGateway) InsertCncTimeLog(ctx context.Context, id Identity, input *models.CncTimeLog) (*models.CncTimeLog, error) {
	if id.UserID == "" {
		return nil, Classify(CollectionCncTimeLogs, ErrNotAuthorized)
	}

	row := *input
	row.ID = uuid.NewString()
	row.UserID = id.UserID
	row.CreatedAt = time.Now()

	if err := g.Db.Conn.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, Classify(CollectionCncTimeLogs, err)
	}

	common.GetLoggerWith(
		common.LoggerNameGateway,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryTimeLog),
	).Info("Inserted time log", zap.String("id", row.ID), zap.String("user_id", row.UserID))

	return &row, nil
}
