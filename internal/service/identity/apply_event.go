package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// ApplyEvent applies one identity event to the projection. Events whose
// sequence is at or below the account's last applied sequence are discarded
// without error, so redelivery and replay are safe. The first event applied
// for an account, and any event carrying the deleted status, additionally
// triggers an account reconciliation.
func (s *Service) ApplyEvent(ctx context.Context, event domain.IdentityEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	current, err := s.projection.Get(ctx, event.AccountID)
	firstEvent := false
	switch {
	case err == nil:
		if event.Seq <= current.LastEventSeq {
			s.log.Debug("stale identity event discarded",
				"account", event.AccountID,
				"seq", event.Seq,
				"last_seq", current.LastEventSeq)
			return nil
		}
	case errors.Is(err, domain.ErrNotFound):
		firstEvent = true
	default:
		return fmt.Errorf("projection lookup: %w", err)
	}

	row := &domain.IdentityProjectionRow{
		AccountID:    event.AccountID,
		Status:       event.Status,
		Profile:      event.Profile,
		LastEventSeq: event.Seq,
		UpdatedAt:    time.Now().UTC(),
	}
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.projection.Upsert(txCtx, row); err != nil {
			return fmt.Errorf("upsert projection: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.log.Info("identity event applied",
		"account", event.AccountID,
		"status", string(event.Status),
		"seq", event.Seq)

	if firstEvent || event.Status == domain.AccountDeleted {
		if err := s.reconciler.ReconcileAccount(ctx, event.AccountID); err != nil {
			// The projection is already updated; the caller must not nack
			// the event over a failed cleanup.
			s.log.Error("account reconciliation failed",
				"account", event.AccountID,
				"error", err)
		}
	}
	return nil
}
