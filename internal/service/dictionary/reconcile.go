package dictionary

import (
	"context"
	"errors"
	"fmt"

	"github.com/quillcheck/quillcheck-backend/internal/domain"
)

// ReconcileAccount aligns stored dictionary state with the account's
// identity state. It runs once per account, triggered by the identity
// consumer on the first event it applies for that account, replacing ad hoc
// migration at call sites. Currently the only reconciling action is purging
// all scopes of an account that arrived already deleted.
func (s *Service) ReconcileAccount(ctx context.Context, accountID string) error {
	row, err := s.projection.Get(ctx, accountID)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("projection lookup: %w", err)
	}
	if row.Status != domain.AccountDeleted {
		return nil
	}

	prefix := domain.Scope{AccountID: accountID}.AccountPrefix()

	var purged int64
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		purged, err = s.words.PurgeByPrefix(txCtx, prefix)
		if err != nil {
			return fmt.Errorf("purge scopes: %w", err)
		}
		if purged == 0 {
			return nil
		}

		outRow, err := newOutboxRow(domain.EventDictReconciled, domain.DictDelta{
			ScopeKey:  prefix,
			WordCount: 0,
		})
		if err != nil {
			return err
		}
		if err := s.outbox.Insert(txCtx, outRow); err != nil {
			return fmt.Errorf("insert outbox row: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	if purged > 0 {
		s.log.Info("reconciled deleted account",
			"account", accountID,
			"purged", purged)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
