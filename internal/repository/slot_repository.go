package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// slotRange is the persisted shape of the per-(leagueId, fieldKey,
// gameDate) summary row the overlap guard serializes writes through
// (spec §4.D, §5 "Shared-resource policy").
type slotRange struct {
	SlotID   string `json:"slotId"`
	StartMin int    `json:"startMin"`
	EndMin   int    `json:"endMin"`
}

// TryParseMinutesRange rejects inverted or zero-length ranges (spec §4.D).
func TryParseMinutesRange(startMin, endMin int) error {
	if startMin < 0 || endMin < 0 || startMin >= 1440 || endMin > 1440 {
		return appErrors.Clone(appErrors.ErrValidation, "start/end time must be within a single local day")
	}
	if endMin <= startMin {
		return appErrors.Clone(appErrors.ErrValidation, "endTime must be greater than startTime")
	}
	return nil
}

// SlotRepository persists Slot rows partitioned by leagueId, and enforces
// the non-overlap invariant via a CAS-serialized per-(fieldKey,gameDate)
// summary row kept in a second partition of the same store.
type SlotRepository struct {
	slots     store.Store
	summaries store.Store
}

// NewSlotRepository wires the Slot table and its overlap-summary table.
// Grounded on the teacher's optimistic per-row CAS pattern in
// internal/repository/semester_schedule_repository.go, generalized to a
// dedicated summary row instead of the slot row itself so that two slots
// on different times of the same (field,date) don't spuriously conflict
// on the slot's own version counter.
func NewSlotRepository(slots, summaries store.Store) *SlotRepository {
	return &SlotRepository{slots: slots, summaries: summaries}
}

func (r *SlotRepository) Get(ctx context.Context, leagueID, slotID string) (*models.Slot, error) {
	row, err := r.slots.Get(ctx, leagueID, slotID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load slot")
	}
	var slot models.Slot
	if err := decode(row.Data, &slot); err != nil {
		return nil, err
	}
	slot.Version = row.Version
	return &slot, nil
}

// ListByDivision lists slots for a division, optionally filtered by
// status, in deterministic (gameDate, fieldKey, startTime) order.
func (r *SlotRepository) ListByDivision(ctx context.Context, leagueID, division string, status *models.SlotStatus) ([]models.Slot, error) {
	rows, err := r.slots.QueryByPartition(ctx, leagueID, func(row store.Row) bool {
		var s models.Slot
		if err := decode(row.Data, &s); err != nil {
			return false
		}
		if s.Division != division {
			return false
		}
		if status != nil && s.Status != *status {
			return false
		}
		return true
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list slots")
	}
	out := make([]models.Slot, 0, len(rows))
	for _, row := range rows {
		var s models.Slot
		if err := decode(row.Data, &s); err != nil {
			return nil, err
		}
		s.Version = row.Version
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GameDate != out[j].GameDate {
			return out[i].GameDate < out[j].GameDate
		}
		if out[i].FieldKey != out[j].FieldKey {
			return out[i].FieldKey < out[j].FieldKey
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func summaryKey(fieldKey, gameDate string) string {
	return fieldKey + "|" + gameDate
}

func (r *SlotRepository) ensureSummaryRow(ctx context.Context, leagueID, key string) error {
	_, err := r.summaries.Get(ctx, leagueID, key)
	if err == store.ErrNotFound {
		empty, encErr := encode([]slotRange{})
		if encErr != nil {
			return encErr
		}
		return r.summaries.Upsert(ctx, store.Row{Partition: leagueID, RowKey: key, Version: 0, Data: empty})
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load slot summary")
	}
	return nil
}

// Create validates the time range, reserves it against the (fieldKey,
// gameDate) summary row under CAS, and persists the slot. On overlap it
// returns SLOT_CONFLICT without retrying (spec §4.D: "loser ... does NOT
// retry automatically"); on CAS staleness against the summary row itself
// it retries up to maxAttempts times.
func (r *SlotRepository) Create(ctx context.Context, slot *models.Slot, maxAttempts int) error {
	if err := TryParseMinutesRange(slot.StartTime, slot.EndTime); err != nil {
		return err
	}
	key := summaryKey(slot.FieldKey, slot.GameDate)
	if err := r.ensureSummaryRow(ctx, slot.LeagueID, key); err != nil {
		return err
	}

	_, err := store.Retry(ctx, r.summaries, slot.LeagueID, key, maxAttempts, func(current store.Row) (store.Row, error) {
		var ranges []slotRange
		if len(current.Data) > 0 {
			if err := decode(current.Data, &ranges); err != nil {
				return store.Row{}, err
			}
		}
		for _, existing := range ranges {
			if models.Overlaps(slot.StartTime, slot.EndTime, existing.StartMin, existing.EndMin) {
				return store.Row{}, appErrors.Clone(appErrors.ErrSlotConflict, fmt.Sprintf("slot overlaps existing slot %s on %s", existing.SlotID, slot.GameDate))
			}
		}
		ranges = append(ranges, slotRange{SlotID: slot.SlotID, StartMin: slot.StartTime, EndMin: slot.EndTime})
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].StartMin < ranges[j].StartMin })
		data, err := encode(ranges)
		if err != nil {
			return store.Row{}, err
		}
		return store.Row{Data: data}, nil
	})
	if err != nil {
		if err == store.ErrRetryExhausted {
			return appErrors.ErrConflictRetryExhausted
		}
		return err
	}

	data, err := encode(slot)
	if err != nil {
		return err
	}
	if err := r.slots.Upsert(ctx, store.Row{Partition: slot.LeagueID, RowKey: slot.SlotID, Version: slot.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist slot")
	}
	return nil
}

// reserveRange inserts (slotID, startMin, endMin) into the summary row at
// key, rejecting overlap against any OTHER slot already reserved there.
// Re-running it for a slot already present at key first drops that slot's
// old range so a same-key time move doesn't spuriously conflict with
// itself.
func (r *SlotRepository) reserveRange(ctx context.Context, leagueID, key, slotID string, startMin, endMin, maxAttempts int) error {
	if err := r.ensureSummaryRow(ctx, leagueID, key); err != nil {
		return err
	}
	_, err := store.Retry(ctx, r.summaries, leagueID, key, maxAttempts, func(current store.Row) (store.Row, error) {
		var ranges []slotRange
		if len(current.Data) > 0 {
			if err := decode(current.Data, &ranges); err != nil {
				return store.Row{}, err
			}
		}
		kept := ranges[:0]
		for _, existing := range ranges {
			if existing.SlotID == slotID {
				continue
			}
			if models.Overlaps(startMin, endMin, existing.StartMin, existing.EndMin) {
				return store.Row{}, appErrors.Clone(appErrors.ErrSlotConflict, fmt.Sprintf("slot overlaps existing slot %s", existing.SlotID))
			}
			kept = append(kept, existing)
		}
		kept = append(kept, slotRange{SlotID: slotID, StartMin: startMin, EndMin: endMin})
		sort.Slice(kept, func(i, j int) bool { return kept[i].StartMin < kept[j].StartMin })
		data, err := encode(kept)
		if err != nil {
			return store.Row{}, err
		}
		return store.Row{Data: data}, nil
	})
	if err == store.ErrRetryExhausted {
		return appErrors.ErrConflictRetryExhausted
	}
	return err
}

// releaseRange removes slotID's reservation from the summary row at key.
func (r *SlotRepository) releaseRange(ctx context.Context, leagueID, key, slotID string, maxAttempts int) error {
	_, err := store.Retry(ctx, r.summaries, leagueID, key, maxAttempts, func(current store.Row) (store.Row, error) {
		var ranges []slotRange
		if len(current.Data) > 0 {
			if err := decode(current.Data, &ranges); err != nil {
				return store.Row{}, err
			}
		}
		kept := ranges[:0]
		for _, existing := range ranges {
			if existing.SlotID != slotID {
				kept = append(kept, existing)
			}
		}
		data, err := encode(kept)
		if err != nil {
			return store.Row{}, err
		}
		return store.Row{Data: data}, nil
	})
	if err == store.ErrRetryExhausted {
		return appErrors.ErrConflictRetryExhausted
	}
	return err
}

// Move relocates a slot to a new (fieldKey, gameDate, startMin, endMin),
// re-running the same overlap guard Create enforces against the
// destination (fieldKey, gameDate) summary row before releasing the slot's
// reservation at its old summary row and committing the new time/field
// onto the slot itself (spec §3: "slot time ranges are pairwise
// non-overlapping" holds across moves, not just creation).
func (r *SlotRepository) Move(ctx context.Context, leagueID, slotID, fieldKey, gameDate string, startMin, endMin, maxAttempts int) (*models.Slot, error) {
	if err := TryParseMinutesRange(startMin, endMin); err != nil {
		return nil, err
	}
	slot, err := r.Get(ctx, leagueID, slotID)
	if err != nil {
		return nil, err
	}
	oldKey := summaryKey(slot.FieldKey, slot.GameDate)
	newKey := summaryKey(fieldKey, gameDate)

	if err := r.reserveRange(ctx, leagueID, newKey, slotID, startMin, endMin, maxAttempts); err != nil {
		return nil, err
	}
	if oldKey != newKey {
		if err := r.releaseRange(ctx, leagueID, oldKey, slotID, maxAttempts); err != nil {
			return nil, err
		}
	}

	return r.CAS(ctx, leagueID, slotID, maxAttempts, func(current *models.Slot) (*models.Slot, error) {
		current.FieldKey = fieldKey
		current.GameDate = gameDate
		current.StartTime = startMin
		current.EndTime = endMin
		return current, nil
	})
}

// MutateSlot is the CAS transform applied to a Slot by the state machine
// (internal/service's Approve/Reject/Cancel operations).
type MutateSlot func(current *models.Slot) (*models.Slot, error)

// CAS performs a bounded read-mutate-write loop on a single slot row; this
// is the ONLY place slot.version is re-read and re-written, per the
// Design Notes' single-generic-primitive guidance (it delegates to
// internal/store.Retry).
func (r *SlotRepository) CAS(ctx context.Context, leagueID, slotID string, maxAttempts int, mutate MutateSlot) (*models.Slot, error) {
	result, err := store.Retry(ctx, r.slots, leagueID, slotID, maxAttempts, func(current store.Row) (store.Row, error) {
		var slot models.Slot
		if err := decode(current.Data, &slot); err != nil {
			return store.Row{}, err
		}
		slot.Version = current.Version
		next, err := mutate(&slot)
		if err != nil {
			return store.Row{}, err
		}
		data, err := encode(next)
		if err != nil {
			return store.Row{}, err
		}
		return store.Row{Data: data}, nil
	})
	if err != nil {
		if err == store.ErrRetryExhausted {
			return nil, appErrors.ErrConflictRetryExhausted
		}
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, err
	}
	var slot models.Slot
	if err := decode(result.Data, &slot); err != nil {
		return nil, err
	}
	slot.Version = result.Version
	return &slot, nil
}
