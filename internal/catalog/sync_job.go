package catalog

import (
	"context"
	"fmt"

	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

// SyncJob is the scheduled catalog synchronization pass. It wraps the same
// catalog service the HTTP layer serves from, so each run is visible to
// readers immediately.
type SyncJob struct {
	logg    *logger.Logger
	service *Service
}

// NewSyncJob builds the scheduled job around the catalog service.
func NewSyncJob(logg *logger.Logger, service *Service) (*SyncJob, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if service == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &SyncJob{logg: logg, service: service}, nil
}

func (j *SyncJob) Name() string {
	return "catalog-sync"
}

func (j *SyncJob) Run(ctx context.Context) error {
	j.service.EnsureInitialized(ctx)
	return j.service.Sync(ctx)
}
