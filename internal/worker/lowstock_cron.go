package worker

// lowstock_cron.go
// Background goroutine that periodically sweeps the catalog for fabrics whose
// derived stock fell below the threshold and enqueues alert jobs. Catches
// fabrics drained outside the order path (manual ledger entries). A Redis
// marker keyed per fabric suppresses duplicate alerts for 24h.

import (
	"context"
	"time"

	"fabrictrack/internal/dto"
	"fabrictrack/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	sweepTickInterval = time.Hour
	alertMarkerPrefix = "lowstock:alerted:"
	alertMarkerTTL    = 24 * time.Hour
)

// LowStockCronConfig holds all dependencies for the sweep goroutine.
type LowStockCronConfig struct {
	Fabrics    repository.FabricRepository
	Movements  repository.MovementRepository
	RDB        *redis.Client
	Dispatcher *Dispatcher
	Threshold  decimal.Decimal
}

// StartLowStockCron launches a background goroutine that ticks every hour and
// enqueues alerts for fabrics at or below the threshold. Respects the context
// for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	go func() {
		ticker := time.NewTicker(sweepTickInterval)
		defer ticker.Stop()

		log.Info().Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				sweepLowStock(ctx, cfg)
			}
		}
	}()
}

func sweepLowStock(ctx context.Context, cfg LowStockCronConfig) {
	fabrics, err := cfg.Fabrics.List(ctx, dto.FabricFilter{})
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to list fabrics")
		return
	}
	ids := make([]uuid.UUID, 0, len(fabrics))
	for _, f := range fabrics {
		ids = append(ids, f.ID)
	}
	sums, err := cfg.Movements.SumsByFabric(ctx, ids)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to sum movements")
		return
	}

	alerted := 0
	for i := range fabrics {
		f := &fabrics[i]
		stock := f.OpeningQty.Add(sums[f.ID])
		if stock.GreaterThan(cfg.Threshold) {
			continue
		}

		// SETNX marker so one drained fabric produces one alert per day,
		// not one per sweep.
		ok, err := cfg.RDB.SetNX(ctx, alertMarkerPrefix+f.ID.String(), 1, alertMarkerTTL).Result()
		if err != nil || !ok {
			continue
		}

		if err := cfg.Dispatcher.EnqueueLowStockAlert(ctx, LowStockJobPayload{
			FabricID:       f.ID.String(),
			FabricName:     f.Name,
			ProductCode:    f.ProductCode,
			RemainingStock: stock.String(),
		}); err != nil {
			log.Warn().Err(err).Str("fabric", f.Name).Msg("lowstock_cron: failed to enqueue alert")
			continue
		}
		alerted++
	}

	if alerted > 0 {
		log.Info().Int("count", alerted).Msg("lowstock_cron: alerts enqueued")
	}
}
