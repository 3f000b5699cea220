package scheduler

import (
	"context"
	"time"

	"github.com/kreslo/kreslo-backend/config"
	"github.com/kreslo/kreslo-backend/internal/app/service"
	"github.com/kreslo/kreslo-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the storefront's housekeeping jobs: expiring flash sales
// and dropping idle carts from memory.
type Scheduler struct {
	cron    *cron.Cron
	catalog service.CatalogService
	carts   service.CartService
	cfg     config.SchedulerConfig
	idleTTL time.Duration
}

func NewScheduler(
	catalog service.CatalogService,
	carts service.CartService,
	cfg config.SchedulerConfig,
	idleTTL time.Duration,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		catalog: catalog,
		carts:   carts,
		cfg:     cfg,
		idleTTL: idleTTL,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.FlashSaleSpec, s.ExpireFlashSales); err != nil {
		logger.Error("Failed to add cron job for flash sale expiry", err)
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.CartEvictSpec, s.EvictIdleCarts); err != nil {
		logger.Error("Failed to add cron job for cart eviction", err)
		return err
	}

	s.cron.Start()
	logger.Info("Scheduler started", map[string]interface{}{
		"flash_sale_spec": s.cfg.FlashSaleSpec,
		"cart_evict_spec": s.cfg.CartEvictSpec,
		"cart_idle_ttl":   s.idleTTL.String(),
	})
	return nil
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	logger.Info("Stopping scheduler...")
	select {
	case <-s.cron.Stop().Done():
		logger.Info("Scheduler stopped")
	case <-ctx.Done():
		logger.Warn("Scheduler stop timed out")
	}
}

func (s *Scheduler) ExpireFlashSales() {
	if _, err := s.catalog.ExpireFlashSales(); err != nil {
		logger.Error("Failed to expire flash sales from scheduler", err)
	}
}

func (s *Scheduler) EvictIdleCarts() {
	s.carts.EvictIdle(s.idleTTL)
}
