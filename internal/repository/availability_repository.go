package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// AvailabilityRuleRepository persists AvailabilityRule rows partitioned by
// leagueId.
type AvailabilityRuleRepository struct {
	store store.Store
}

func NewAvailabilityRuleRepository(s store.Store) *AvailabilityRuleRepository {
	return &AvailabilityRuleRepository{store: s}
}

func (r *AvailabilityRuleRepository) ListByDivision(ctx context.Context, leagueID, division string) ([]models.AvailabilityRule, error) {
	rows, err := r.store.QueryByPartition(ctx, leagueID, func(row store.Row) bool {
		var rule models.AvailabilityRule
		if err := decode(row.Data, &rule); err != nil {
			return false
		}
		return rule.Division == division
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list availability rules")
	}
	out := make([]models.AvailabilityRule, 0, len(rows))
	for _, row := range rows {
		var rule models.AvailabilityRule
		if err := decode(row.Data, &rule); err != nil {
			return nil, err
		}
		rule.Version = row.Version
		out = append(out, rule)
	}
	return out, nil
}

func (r *AvailabilityRuleRepository) Upsert(ctx context.Context, rule *models.AvailabilityRule) error {
	if rule.RuleID == "" {
		rule.RuleID = uuid.NewString()
	}
	data, err := encode(rule)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: rule.LeagueID, RowKey: rule.RuleID, Version: rule.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist availability rule")
	}
	return nil
}

// AvailabilityExceptionRepository persists AvailabilityException rows
// partitioned by ruleId.
type AvailabilityExceptionRepository struct {
	store store.Store
}

func NewAvailabilityExceptionRepository(s store.Store) *AvailabilityExceptionRepository {
	return &AvailabilityExceptionRepository{store: s}
}

func (r *AvailabilityExceptionRepository) ListByRule(ctx context.Context, ruleID string) ([]models.AvailabilityException, error) {
	rows, err := r.store.QueryByPartition(ctx, ruleID, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list availability exceptions")
	}
	out := make([]models.AvailabilityException, 0, len(rows))
	for _, row := range rows {
		var ex models.AvailabilityException
		if err := decode(row.Data, &ex); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}

func (r *AvailabilityExceptionRepository) Upsert(ctx context.Context, ex *models.AvailabilityException) error {
	if ex.ExceptionID == "" {
		ex.ExceptionID = uuid.NewString()
	}
	data, err := encode(ex)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: ex.RuleID, RowKey: ex.ExceptionID, Version: 0, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist availability exception")
	}
	return nil
}
