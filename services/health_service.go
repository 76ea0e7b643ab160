package services

import (
	"context"
	"time"

	"github.com/NomadCrew/school-dashboard/logger"
	"github.com/NomadCrew/school-dashboard/store"
	"github.com/NomadCrew/school-dashboard/types"
	"go.uber.org/zap"
)

type HealthService struct {
	kv        store.KVStore
	version   string
	startTime time.Time
	log       *zap.SugaredLogger
}

func NewHealthService(kv store.KVStore, version string) *HealthService {
	return &HealthService{
		kv:        kv,
		version:   version,
		startTime: time.Now(),
		log:       logger.GetLogger(),
	}
}

// CheckHealth reports the key-value store status. The dashboard still renders
// without the cache, so a failing store degrades the service instead of
// taking it down.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	kvStatus := h.checkKVStore(ctx)
	components["kv_store"] = kvStatus
	if kvStatus.Status != types.HealthStatusUp {
		overallStatus = types.HealthStatusDegraded
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkKVStore(ctx context.Context) types.HealthComponent {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.kv.Ping(ctx); err != nil {
		h.log.Errorw("KV store health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "KV store connection failed",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}
