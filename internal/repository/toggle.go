package repository

import (
	"errors"

	"aperture/internal/models"

	"gorm.io/gorm"
)

// toggleSpec describes one relationship kind to the shared toggle engine:
// how to query the pair's row, how to insert a fresh active row, and which
// denormalized counter tracks the pair's target.
type toggleSpec struct {
	// rows returns a fresh query scoped to the (actor, target) pair.
	rows          func() *gorm.DB
	create        func() error
	counterModel  interface{}
	counterID     uint
	counterColumn string
}

// relationshipRow is the slice of a relationship table the engine needs.
type relationshipRow struct {
	ID        uint
	IsDeleted bool
}

func loadRelationship(spec toggleSpec) (relationshipRow, models.RelationshipState, error) {
	var row relationshipRow
	err := spec.rows().Select("id", "is_deleted").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, models.StateAbsent, nil
	}
	if err != nil {
		return row, models.StateAbsent, err
	}
	return row, models.StateOf(true, row.IsDeleted), nil
}

// applyRelationshipState moves the pair's row into next. For an absent pair
// it inserts a fresh active row; otherwise it flips the soft-delete flag,
// conditioned on the flag still holding the value read, so two racing
// requests cannot both claim the same transition. Returns whether this call
// performed the change.
func applyRelationshipState(spec toggleSpec, row relationshipRow, cur, next models.RelationshipState) (bool, error) {
	if cur == models.StateAbsent {
		err := spec.create()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// The pair has a unique index; a concurrent request inserted
			// the row first and owns the counter increment.
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return true, nil
	}
	res := spec.rows().
		Where("id = ? AND is_deleted = ?", row.ID, row.IsDeleted).
		Update("is_deleted", next == models.StateInactive)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// toggleRelationship advances the pair one step through the state machine
// (absent -> active <-> inactive) and applies the counter delta in the same
// transaction. Rows are never deleted, only flagged.
func toggleRelationship(tx *gorm.DB, spec toggleSpec) (models.RelationshipState, error) {
	row, cur, err := loadRelationship(spec)
	if err != nil {
		return models.StateAbsent, err
	}
	next, delta := cur.Toggle()
	applied, err := applyRelationshipState(spec, row, cur, next)
	if err != nil {
		return models.StateAbsent, err
	}
	if !applied {
		// A concurrent request won the flip and already adjusted the
		// counter; this call just observes the state it produced.
		return next, nil
	}
	if err := adjustCounter(tx, spec.counterModel, spec.counterID, spec.counterColumn, delta); err != nil {
		return models.StateAbsent, err
	}
	return next, nil
}

// setRelationshipActive drives the pair into the requested state through the
// same machine as toggleRelationship. Requests the pair already satisfies,
// including deactivating a pair that never existed, change nothing.
func setRelationshipActive(tx *gorm.DB, spec toggleSpec, active bool) (bool, error) {
	row, cur, err := loadRelationship(spec)
	if err != nil {
		return false, err
	}
	want := models.StateFor(active)
	if models.CounterDelta(cur, want) == 0 {
		return false, nil
	}
	applied, err := applyRelationshipState(spec, row, cur, want)
	if err != nil || !applied {
		return false, err
	}
	if err := adjustCounter(tx, spec.counterModel, spec.counterID, spec.counterColumn, models.CounterDelta(cur, want)); err != nil {
		return false, err
	}
	return true, nil
}
