package workflow

import (
	"gorm.io/gorm"

	"github.com/portal-space/core/internal/models"
)

// Draft is the editable side of an entity family. Implemented by the draft
// models; the engine drives the whole lifecycle through this interface.
type Draft interface {
	GetID() string
	GetTitle() string
	GetStatus() models.DraftStatus
	SetStatus(models.DraftStatus)
	PublishedRef() *string
	SetPublishedRef(id string)
}

// Published is the public side of an entity family.
type Published interface {
	GetID() string
	GetTitle() string
}

// Assoc describes one referenced-id set shared by the draft and published
// models. Field is the gorm association name, identical on both sides so the
// engine can copy sets across during promotion.
type Assoc struct {
	Field string
	Label string
	// NewRows returns a pointer to an empty typed slice for this set, used
	// both to validate incoming ids and to carry rows from draft to published.
	NewRows func() interface{}
}

// Family wires one draft/published pair into the engine. The engine owns the
// lifecycle and promotion mechanics; the family supplies everything that is
// specific to the entity shape.
type Family[D Draft, P Published] struct {
	Name           string
	DraftLabel     string
	PublishedLabel string

	NewDraft     func() D
	NewPublished func() P

	// PublishedRefColumn is the draft table column holding the published row
	// id once the draft has been approved at least once.
	PublishedRefColumn string

	// CopyScalars fills a fresh published row from the draft (first approval).
	CopyScalars func(d D, p P)
	// ScalarUpdates is the column map written onto the existing published row
	// on resubmission. A map so zero values overwrite.
	ScalarUpdates func(d D) map[string]interface{}

	Assocs []Assoc

	// Validate runs extra referential checks inside the engine's transaction,
	// e.g. that the draft's team and kind exist.
	Validate func(tx *gorm.DB, d D) error
}
