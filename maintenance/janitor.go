// Package maintenance hosts the periodic cleanup of the verification send
// ledger.
package maintenance

import (
	"context"
	"time"

	"github.com/kaobian-ai/kaobian-server/config"
	"github.com/kaobian-ai/kaobian-server/verification"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// RegisterLedgerJanitor purges ledger rows older than the retention period on
// a fixed interval. Purges only touch strictly-older rows, so overlapping a
// purge with live writes is safe.
func RegisterLedgerJanitor(lc fx.Lifecycle, config *config.Config, ledger verification.SendLedger) {
	retention := time.Duration(config.VerificationConfig.LedgerRetentionDays) * 24 * time.Hour
	interval := config.VerificationConfig.CleanupInterval

	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						purge(ledger, retention)
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
}

func purge(ledger verification.SendLedger, retention time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := ledger.PurgeOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		log.Error().Err(err).Msg("Send ledger purge failed")
		return
	}

	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Msg("Purged old send records")
	}
}
