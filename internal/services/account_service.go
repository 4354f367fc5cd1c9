package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anonto42/bank-backoffice/backend/internal/models"
	"github.com/anonto42/bank-backoffice/backend/internal/repositories"
)

const constraintConflictMessage = "Delete failed due to database constraints. Consider archiving the account."

// AccountService guards destructive account operations
type AccountService struct {
	store  repositories.Store
	logger *slog.Logger
}

func NewAccountService(store repositories.Store, logger *slog.Logger) *AccountService {
	return &AccountService{store: store, logger: logger}
}

// Delete removes an account that nothing references. Transactions naming
// the account as source and as target are counted separately and summed, so
// a self-transfer counts twice.
func (s *AccountService) Delete(ctx context.Context, accountNumber string) error {
	if strings.TrimSpace(accountNumber) == "" {
		return invalidArgument("accountNumber is required")
	}

	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		exists, err := tx.Accounts().Exists(accountNumber)
		if err != nil {
			return fmt.Errorf("check account: %w", err)
		}
		if !exists {
			return notFound("Account not found")
		}

		asSource, err := tx.Transactions().CountBySourceAccount(accountNumber)
		if err != nil {
			return fmt.Errorf("count source transactions: %w", err)
		}
		asTarget, err := tx.Transactions().CountByTargetAccount(accountNumber)
		if err != nil {
			return fmt.Errorf("count target transactions: %w", err)
		}
		userDeps, err := tx.Users().CountByAccountNumber(accountNumber)
		if err != nil {
			return fmt.Errorf("count owning users: %w", err)
		}

		txDeps := asSource + asTarget
		if txDeps > 0 || userDeps > 0 {
			return conflict(fmt.Sprintf(
				"Cannot delete account; dependencies exist (transactions=%d, users=%d). Consider archiving.",
				txDeps, userDeps))
		}
		return tx.Accounts().Delete(accountNumber)
	})

	switch {
	case err == nil:
		s.logger.InfoContext(ctx, "account deleted", "account_number", accountNumber)
		return nil
	case errors.Is(err, repositories.ErrConstraintViolation):
		s.logger.WarnContext(ctx, "account delete rejected by store", "account_number", accountNumber, "error", err)
		return conflict(constraintConflictMessage)
	case errors.Is(err, repositories.ErrNotFound):
		// removed between the existence check and the delete
		return notFound("Account not found")
	}
	return err
}

// List returns accounts ordered by number. Archived accounts are left out
// unless includeArchived is set.
func (s *AccountService) List(ctx context.Context, query string, includeArchived bool) ([]models.Account, error) {
	var accounts []models.Account
	err := s.store.Do(ctx, func(tx repositories.Tx) error {
		var err error
		accounts, err = tx.Accounts().List(repositories.AccountFilter{
			Query:           strings.TrimSpace(query),
			IncludeArchived: includeArchived,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}
