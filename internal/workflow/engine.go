package workflow

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/portal-space/core/internal/models"
	"github.com/portal-space/core/internal/pkg/apperrors"
)

// Engine runs the draft lifecycle for one entity family: create and edit
// drafts, move them through review, and on approval promote them into the
// published entity. Every operation is a single transaction; a failure at
// any step leaves both sides untouched.
type Engine[D Draft, P Published] struct {
	db     *gorm.DB
	logger *zap.Logger
	family Family[D, P]
}

func NewEngine[D Draft, P Published](db *gorm.DB, logger *zap.Logger, family Family[D, P]) *Engine[D, P] {
	return &Engine[D, P]{db: db, logger: logger, family: family}
}

// Create validates and persists a new draft with its referenced-id sets.
// assocIDs keys are association field names; a missing key means an empty set.
func (e *Engine[D, P]) Create(ctx context.Context, d D, assocIDs map[string][]string) error {
	if d.GetTitle() == "" {
		return apperrors.Validationf("%s title is required", e.family.DraftLabel)
	}

	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := e.checkTitle(tx, d.GetTitle(), ""); err != nil {
			return err
		}
		if e.family.Validate != nil {
			if err := e.family.Validate(tx, d); err != nil {
				return err
			}
		}
		rows, err := e.resolveAssocs(tx, assocIDs)
		if err != nil {
			return err
		}

		d.SetStatus(models.StatusCreated)
		if err := tx.Omit(clause.Associations).Create(d).Error; err != nil {
			return apperrors.Internal(err)
		}
		return e.relinkAssocs(tx, d, rows)
	})
}

// Edit loads a draft, applies the scalar changes, revalidates the referenced
// sets and relinks them in full. Editing a rejected draft returns it to
// created so it can be resubmitted.
func (e *Engine[D, P]) Edit(ctx context.Context, id string, apply func(D), assocIDs map[string][]string) (D, error) {
	var out D
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := e.loadDraft(tx, id, false)
		if err != nil {
			return err
		}

		apply(d)
		if d.GetTitle() == "" {
			return apperrors.Validationf("%s title is required", e.family.DraftLabel)
		}
		if err := e.checkTitle(tx, d.GetTitle(), id); err != nil {
			return err
		}
		if e.family.Validate != nil {
			if err := e.family.Validate(tx, d); err != nil {
				return err
			}
		}
		rows, err := e.resolveAssocs(tx, assocIDs)
		if err != nil {
			return err
		}

		if d.GetStatus() == models.StatusRejected {
			d.SetStatus(models.StatusCreated)
		}
		if err := tx.Omit(clause.Associations).Save(d).Error; err != nil {
			return apperrors.Internal(err)
		}
		if err := e.relinkAssocs(tx, d, rows); err != nil {
			return err
		}
		out = d
		return nil
	})
	return out, err
}

// SubmitForReview moves a draft into the reviewing state. A draft already
// under review cannot be submitted again.
func (e *Engine[D, P]) SubmitForReview(ctx context.Context, id string) (D, error) {
	var out D
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := e.loadDraft(tx, id, false)
		if err != nil {
			return err
		}
		if d.GetStatus() == models.StatusReviewing {
			return apperrors.Conflictf("%s %q is already under review", e.family.DraftLabel, d.GetTitle())
		}

		d.SetStatus(models.StatusReviewing)
		if err := tx.Model(d).Update("status", models.StatusReviewing).Error; err != nil {
			return apperrors.Internal(err)
		}
		out = d
		return nil
	})
	return out, err
}

// Decide resolves a review. Rejection marks the draft rejected from any
// state; approval requires a draft under review and promotes it into the
// published entity inside the same transaction, locking the draft row so
// concurrent decisions serialize.
func (e *Engine[D, P]) Decide(ctx context.Context, id string, approved bool) (P, D, error) {
	var pub P
	var draft D
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := e.loadDraft(tx, id, true)
		if err != nil {
			return err
		}

		if !approved {
			d.SetStatus(models.StatusRejected)
			if err := tx.Model(d).Update("status", models.StatusRejected).Error; err != nil {
				return apperrors.Internal(err)
			}
			e.logger.Info("draft rejected",
				zap.String("family", e.family.Name),
				zap.String("id", d.GetID()))
			draft = d
			return nil
		}

		if d.GetStatus() != models.StatusReviewing {
			return apperrors.Conflictf("%s %q is not under review", e.family.DraftLabel, d.GetTitle())
		}

		p, err := e.promote(tx, d)
		if err != nil {
			return err
		}
		pub, draft = p, d
		return nil
	})
	return pub, draft, err
}

// promote applies an approved draft to the published side. First approval
// creates the published row and appends every referenced set; resubmission
// overwrites the scalars and replaces every set so removals take effect.
func (e *Engine[D, P]) promote(tx *gorm.DB, d D) (P, error) {
	p := e.family.NewPublished()

	ref := d.PublishedRef()
	first := ref == nil || *ref == ""
	if first {
		err := tx.Where("title = ?", d.GetTitle()).First(p).Error
		if err == nil {
			return p, apperrors.Conflictf("%s %q already exists", e.family.PublishedLabel, d.GetTitle())
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return p, apperrors.Internal(err)
		}

		e.family.CopyScalars(d, p)
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return p, apperrors.Internal(err)
		}
		for _, a := range e.family.Assocs {
			rows := a.NewRows()
			if err := tx.Model(d).Association(a.Field).Find(rows); err != nil {
				return p, apperrors.Internal(err)
			}
			if err := tx.Model(p).Association(a.Field).Append(rows); err != nil {
				return p, apperrors.Internal(err)
			}
		}
	} else {
		if err := tx.First(p, "id = ?", *ref).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return p, apperrors.NotFoundf("%s %s no longer exists", e.family.PublishedLabel, *ref)
			}
			return p, apperrors.Internal(err)
		}

		if err := tx.Model(p).Omit(clause.Associations).Updates(e.family.ScalarUpdates(d)).Error; err != nil {
			return p, apperrors.Internal(err)
		}
		for _, a := range e.family.Assocs {
			rows := a.NewRows()
			if err := tx.Model(d).Association(a.Field).Find(rows); err != nil {
				return p, apperrors.Internal(err)
			}
			if err := tx.Model(p).Association(a.Field).Replace(rows); err != nil {
				return p, apperrors.Internal(err)
			}
		}
	}

	d.SetStatus(models.StatusApproved)
	d.SetPublishedRef(p.GetID())
	updates := map[string]interface{}{
		"status":                    models.StatusApproved,
		e.family.PublishedRefColumn: p.GetID(),
	}
	if err := tx.Model(d).Updates(updates).Error; err != nil {
		return p, apperrors.Internal(err)
	}

	e.logger.Info("draft approved",
		zap.String("family", e.family.Name),
		zap.String("id", d.GetID()),
		zap.String("published_id", p.GetID()),
		zap.Bool("first_approval", first))
	return p, nil
}

// Get loads a draft with all its referenced sets preloaded.
func (e *Engine[D, P]) Get(ctx context.Context, id string) (D, error) {
	d := e.family.NewDraft()
	q := e.db.WithContext(ctx)
	for _, a := range e.family.Assocs {
		q = q.Preload(a.Field)
	}
	if err := q.First(d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d, apperrors.NotFoundf("%s %s not found", e.family.DraftLabel, id)
		}
		return d, apperrors.Internal(err)
	}
	return d, nil
}

func (e *Engine[D, P]) loadDraft(tx *gorm.DB, id string, lock bool) (D, error) {
	d := e.family.NewDraft()
	q := tx
	// sqlite has no row locks; the transaction itself serializes there.
	if lock && tx.Dialector.Name() == "mysql" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d, apperrors.NotFoundf("%s %s not found", e.family.DraftLabel, id)
		}
		return d, apperrors.Internal(err)
	}
	return d, nil
}

// checkTitle enforces title uniqueness among active drafts. Rejected drafts
// release their title.
func (e *Engine[D, P]) checkTitle(tx *gorm.DB, title, excludeID string) error {
	q := tx.Model(e.family.NewDraft()).
		Where("title = ?", title).
		Where("status <> ?", models.StatusRejected)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return apperrors.Internal(err)
	}
	if n > 0 {
		return apperrors.Conflictf("%s title %q is already in use", e.family.DraftLabel, title)
	}
	return nil
}

// resolveAssocs validates every incoming id set and returns the fetched rows
// keyed by association field. Unknown keys are rejected rather than ignored.
func (e *Engine[D, P]) resolveAssocs(tx *gorm.DB, assocIDs map[string][]string) (map[string]interface{}, error) {
	known := map[string]bool{}
	rows := make(map[string]interface{}, len(e.family.Assocs))

	for _, a := range e.family.Assocs {
		known[a.Field] = true
		dest := a.NewRows()
		if err := ValidateIDs(tx, a.Label, dest, assocIDs[a.Field]); err != nil {
			return nil, err
		}
		rows[a.Field] = dest
	}

	for field := range assocIDs {
		if !known[field] {
			return nil, apperrors.Validationf("unknown reference set %q", field)
		}
	}
	return rows, nil
}

func (e *Engine[D, P]) relinkAssocs(tx *gorm.DB, d D, rows map[string]interface{}) error {
	for _, a := range e.family.Assocs {
		if err := tx.Model(d).Association(a.Field).Replace(rows[a.Field]); err != nil {
			return apperrors.Internal(err)
		}
	}
	return nil
}
