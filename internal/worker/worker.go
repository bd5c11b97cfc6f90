package worker

import (
	"context"
	"time"

	"github.com/shopmart/storefront/internal/logger"
	"go.uber.org/zap"
)

const sweepInterval = 30 * time.Second

type PaymentService interface {
	// Reconcile repairs orders lagging behind their completed payments
	Reconcile(ctx context.Context) error
}

// Reconciler is worker sweeping completed payments whose orders were
// not updated (a crash or an error between the two writes)
type Reconciler struct {
	svc PaymentService
}

// NewReconciler creates new Reconciler instance
func NewReconciler(svc PaymentService) *Reconciler {
	return &Reconciler{svc: svc}
}

// Run sweeps on a fixed interval until the context is cancelled
func (rc *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("payment reconciler is done")
			return
		case <-ticker.C:
			if err := rc.svc.Reconcile(ctx); err != nil {
				logger.Log.Error("payment reconciliation sweep failed", zap.Error(err))
			}
		}
	}
}
