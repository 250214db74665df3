package gateway

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kalaiprof897-eng/management/pkg/common"
	"github.com/kalaiprof897-eng/management/pkg/metrics"
	"github.com/kalaiprof897-eng/management/pkg/models"
)

type Result[T any] struct {
	Rows []T
	Err  error
}

// ReadResults holds the settled outcome of one read per collection.
type ReadResults struct {
	Machines          Result[models.Machine]
	Tools             Result[models.Tool]
	ProductionRecords Result[models.ProductionRecord]
	CncTimeLogs       Result[models.CncTimeLog]
}

// CoreErrors returns the classified errors of the core collections in
// machines, tools, production_records order.
func (r ReadResults) CoreErrors() []error {
	var errs []error
	for _, err := range []error{r.Machines.Err, r.Tools.Err, r.ProductionRecords.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ReadAll issues the four reads concurrently and waits for all of them to
// settle. A failing read never cancels or hides the others.
func ReadAll(ctx context.Context, g Gateway, id Identity) ReadResults {
	var res ReadResults
	var eg errgroup.Group

	eg.Go(func() error {
		res.Machines.Rows, res.Machines.Err = g.ReadMachines(ctx, id)
		return nil
	})
	eg.Go(func() error {
		res.Tools.Rows, res.Tools.Err = g.ReadTools(ctx, id)
		return nil
	})
	eg.Go(func() error {
		res.ProductionRecords.Rows, res.ProductionRecords.Err = g.ReadProductionRecords(ctx, id)
		return nil
	})
	eg.Go(func() error {
		res.CncTimeLogs.Rows, res.CncTimeLogs.Err = g.ReadCncTimeLogs(ctx, id)
		return nil
	})
	_ = eg.Wait()

	res.Machines.Err = settle(CollectionMachines, res.Machines.Err)
	res.Tools.Err = settle(CollectionTools, res.Tools.Err)
	res.ProductionRecords.Err = settle(CollectionProductionRecords, res.ProductionRecords.Err)
	res.CncTimeLogs.Err = settle(CollectionCncTimeLogs, res.CncTimeLogs.Err)

	return res
}

func settle(collection Collection, err error) error {
	err = Classify(collection, err)

	outcome := "ok"
	if kind, ok := KindOf(err); ok {
		outcome = string(kind)
		common.GetLoggerWith(
			common.LoggerNameGateway,
			zap.String(common.LoggerFieldCategory, common.LoggerCategoryCollectionRead),
		).Warn("Collection read failed",
			zap.String("collection", string(collection)),
			zap.String("kind", outcome),
			zap.Error(err))
	}
	metrics.RecordRead(string(collection), outcome)

	return err
}
