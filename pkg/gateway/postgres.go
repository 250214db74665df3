package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

const (
	machinesSQL = `
		SELECT id, name, status::text, oee, running_time, idle_time, current_part
		FROM public.machines`

	toolsSQL = `
		SELECT id, type, remaining_life, location, status::text
		FROM public.tools`

	productionRecordsSQL = `
		SELECT id::text, part_id, machine_name, quantity_produced, scrap_count, cycle_time, "timestamp"
		FROM public.production_records
		ORDER BY "timestamp" DESC`

	cncTimeLogsSQL = `
		SELECT id::text, machine_name, work_order_number, work_piece_name, quantity,
			COALESCE(si_no, ''), in_time, out_time, COALESCE(user_id::text, ''), created_at
		FROM public.cnc_time_logs
		ORDER BY created_at DESC`

	insertCncTimeLogSQL = `
		INSERT INTO public.cnc_time_logs
			(machine_name, work_order_number, work_piece_name, quantity, si_no, in_time, out_time, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text::uuid)
		RETURNING id::text, machine_name, work_order_number, work_piece_name, quantity,
			COALESCE(si_no, ''), in_time, out_time, COALESCE(user_id::text, ''), created_at`
)

// PgGateway talks to the hosted Postgres directly. Every statement runs in a
// transaction that carries the caller's claims and the authenticated role, so
// the row-level policies decide which rows are visible.
type PgGateway struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPgGateway(ctx context.Context, dsn string) (*PgGateway, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return &PgGateway{
		pool:   pool,
		logger: common.GetLoggerWith(common.LoggerNameGateway),
	}, nil
}

func (g *PgGateway) Close() {
	if g.pool != nil {
		g.pool.Close()
	}
}

func (g *PgGateway) Ping(ctx context.Context) error {
	return g.pool.Ping(ctx)
}

func (g *PgGateway) asUser(ctx context.Context, id Identity, fn func(pgx.Tx) error) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	claims, err := json.Marshal(map[string]string{"sub": id.UserID, "role": "authenticated"})
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "SELECT set_config('request.jwt.claims', $1, true)", string(claims)); err != nil {
		return fmt.Errorf("failed to set request claims: %w", err)
	}
	if _, err := tx.Exec(ctx, "SET LOCAL ROLE authenticated"); err != nil {
		return fmt.Errorf("failed to assume authenticated role: %w", err)
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func query[T any](ctx context.Context, g *PgGateway, id Identity, collection Collection, sql string, scan func(pgx.CollectableRow) (T, error)) ([]T, error) {
	var out []T
	err := g.asUser(ctx, id, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, sql)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, scan)
		return err
	})
	if err != nil {
		g.logger.Debug("query failed", zap.String("collection", string(collection)), zap.Error(err))
		return nil, Classify(collection, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (g *PgGateway) ReadMachines(ctx context.Context, id Identity) ([]models.Machine, error) {
	return query(ctx, g, id, CollectionMachines, machinesSQL, func(row pgx.CollectableRow) (models.Machine, error) {
		var m models.Machine
		var status string
		err := row.Scan(&m.ID, &m.Name, &status, &m.OEE, &m.RunningTime, &m.IdleTime, &m.CurrentPart)
		m.Status = models.MachineStatus(status)
		return m, err
	})
}

func (g *PgGateway) ReadTools(ctx context.Context, id Identity) ([]models.Tool, error) {
	return query(ctx, g, id, CollectionTools, toolsSQL, func(row pgx.CollectableRow) (models.Tool, error) {
		var t models.Tool
		var status string
		err := row.Scan(&t.ID, &t.Type, &t.RemainingLife, &t.Location, &status)
		t.Status = models.ToolStatus(status)
		return t, err
	})
}

func (g *PgGateway) ReadProductionRecords(ctx context.Context, id Identity) ([]models.ProductionRecord, error) {
	return query(ctx, g, id, CollectionProductionRecords, productionRecordsSQL, func(row pgx.CollectableRow) (models.ProductionRecord, error) {
		var p models.ProductionRecord
		err := row.Scan(&p.ID, &p.PartID, &p.MachineName, &p.QuantityProduced, &p.ScrapCount, &p.CycleTime, &p.Timestamp)
		return p, err
	})
}

func (g *PgGateway) ReadCncTimeLogs(ctx context.Context, id Identity) ([]models.CncTimeLog, error) {
	return query(ctx, g, id, CollectionCncTimeLogs, cncTimeLogsSQL, func(row pgx.CollectableRow) (models.CncTimeLog, error) {
		return scanCncTimeLog(row)
	})
}

func (g *PgGateway) InsertCncTimeLog(ctx context.Context, id Identity, input *models.CncTimeLog) (*models.CncTimeLog, error) {
	var inserted models.CncTimeLog
	err := g.asUser(ctx, id, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, insertCncTimeLogSQL,
			input.MachineName, input.WorkOrderNumber, input.WorkPieceName, input.Quantity,
			input.SiNo, input.InTime, input.OutTime, id.UserID)
		var err error
		inserted, err = scanCncTimeLog(row)
		return err
	})
	if err != nil {
		return nil, Classify(CollectionCncTimeLogs, err)
	}
	return &inserted, nil
}

func scanCncTimeLog(row pgx.Row) (models.CncTimeLog, error) {
	var l models.CncTimeLog
	err := row.Scan(&l.ID, &l.MachineName, &l.WorkOrderNumber, &l.WorkPieceName, &l.Quantity,
		&l.SiNo, &l.InTime, &l.OutTime, &l.UserID, &l.CreatedAt)
	return l, err
}
