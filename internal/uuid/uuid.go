// Package uuid wraps github.com/google/uuid so that IDs can be bound
// from URI and query parameters by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

// UnmarshalParam implements gin's BindUnmarshaler so that
// path and query parameters can be parsed into a UUID.
//
// An empty parameter results in the Nil UUID.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, e := google_uuid.Parse(p)
	if e != nil {
		return e
	}

	*u = UUID{parsed}
	return nil
}

// Ptr returns a pointer to the underlying google UUID, or nil if u is the
// Nil UUID. This is used for optional filters.
func (u UUID) Ptr() *google_uuid.UUID {
	if u.UUID == google_uuid.Nil {
		return nil
	}

	id := u.UUID
	return &id
}
