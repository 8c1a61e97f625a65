package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model is the base for resources that are deleted from the database
// when they are deleted, e.g. records.
type Model struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey" example:"65392deb-5e92-4268-b114-297faad6cdce"` // UUID for the resource
	CreatedAt time.Time `json:"createdAt" example:"2022-04-02T19:28:44.491514Z"`                               // Time the resource was created
	UpdatedAt time.Time `json:"updatedAt" example:"2022-04-17T20:14:01.048145Z"`                               // Last time the resource was updated
}

// DefaultModel is the base for all resources that are soft deleted.
//
// gorm adds "deleted_at IS NULL" to every query on a model with a
// gorm.DeletedAt field, so soft deleted resources are never returned
// unless the query is explicitly Unscoped().
type DefaultModel struct {
	Model
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index" example:"2022-04-22T21:01:05.058161Z" swaggertype:"primitive,string"` // Time the resource was marked as deleted
}

// BeforeCreate generates a UUID for the resource unless one is set.
func (m *Model) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
//
// They are stored in UTC, but reading them from the
// database returns them as +0000.
func (m *Model) AfterFind(_ *gorm.DB) error {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	m.UpdatedAt = m.UpdatedAt.In(time.UTC)
	return nil
}

// Deleted reports whether the resource has been soft deleted.
func (m DefaultModel) Deleted() bool {
	return m.DeletedAt.Valid
}
