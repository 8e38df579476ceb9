package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/pkg/metrics"
)

// Result итог одного прохода очистки
type Result struct {
	ExpiredHoldSets     int
	RemovedPlaceholders int64
	RefreshedResources  int
}

// Sweeper фоновая очистка: удаляет истёкшие удержания и их плейсхолдеры,
// затем пересчитывает производные флаги всех экземпляров.
// Корректность движка от неё не зависит: истёкшее удержание и так ничего не блокирует.
type Sweeper struct {
	holdRepo       HoldRepository
	allocationRepo AllocationRepository
	resourceRepo   ResourceRepository
	flags          FlagRefresher
	txManager      TransactionManager
	timeProvider   TimeProvider
	metrics        *metrics.Metrics
	interval       time.Duration
	logger         Logger

	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// New создает фоновую очистку с периодом interval. metricsCollector может быть nil.
func New(
	holdRepo HoldRepository,
	allocationRepo AllocationRepository,
	resourceRepo ResourceRepository,
	flags FlagRefresher,
	txManager TransactionManager,
	timeProvider TimeProvider,
	metricsCollector *metrics.Metrics,
	interval time.Duration,
	logger Logger,
) *Sweeper {
	return &Sweeper{
		holdRepo:       holdRepo,
		allocationRepo: allocationRepo,
		resourceRepo:   resourceRepo,
		flags:          flags,
		txManager:      txManager,
		timeProvider:   timeProvider,
		metrics:        metricsCollector,
		interval:       interval,
		logger:         logger,
		done:           make(chan struct{}),
	}
}

// Start запускает проход очистки раз в interval до Stop или отмены ctx
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("Sweeper: started with %v interval", s.interval)

		for {
			select {
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil {
					s.logger.Error("Sweeper: run failed: %v", err)
				}
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop останавливает очистку и ждёт завершения текущего прохода
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
	s.logger.Info("Sweeper: stopped")
}

// RunOnce выполняет один проход. Повторный или параллельный запуск безопасен:
// удаляется только то, что уже истекло к моменту now.
func (s *Sweeper) RunOnce(ctx context.Context) (*Result, error) {
	now := s.timeProvider.Now()
	result := &Result{}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		sets, err := s.holdRepo.DeleteExpired(txCtx, now)
		if err != nil {
			return fmt.Errorf("delete expired holds: %w", err)
		}

		removed, err := s.allocationRepo.DeleteExpiredPlaceholders(txCtx, now)
		if err != nil {
			return fmt.Errorf("delete expired placeholders: %w", err)
		}

		result.ExpiredHoldSets = len(sets)
		result.RemovedPlaceholders = removed
		return nil
	})
	if err != nil {
		s.observeRun("error")
		return nil, err
	}

	ids, err := s.resourceRepo.ListIDs(ctx)
	if err != nil {
		s.observeRun("error")
		return nil, fmt.Errorf("list resources: %w", err)
	}

	// по одной транзакции на экземпляр
	for _, id := range ids {
		err := s.txManager.Do(ctx, func(txCtx context.Context) error {
			_, err := s.flags.RefreshFlags(txCtx, id)
			return err
		})
		if err != nil {
			s.logger.Warn("Sweeper: failed to refresh flags for resource id=%d: %v", id, err)
			continue
		}
		result.RefreshedResources++
	}

	s.observeRun("ok")
	if s.metrics != nil {
		s.metrics.SweeperRemovedTotal.WithLabelValues("hold_set").Add(float64(result.ExpiredHoldSets))
		s.metrics.SweeperRemovedTotal.WithLabelValues("placeholder").Add(float64(result.RemovedPlaceholders))
	}

	if result.ExpiredHoldSets > 0 || result.RemovedPlaceholders > 0 {
		s.logger.Info("Sweeper: removed %d expired hold sets and %d placeholders, refreshed %d resources",
			result.ExpiredHoldSets, result.RemovedPlaceholders, result.RefreshedResources)
	}

	return result, nil
}

func (s *Sweeper) observeRun(outcome string) {
	if s.metrics != nil {
		s.metrics.SweeperRunsTotal.WithLabelValues(outcome).Inc()
	}
}
