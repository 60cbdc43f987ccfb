// Package entity provides the identity, keyed-collection and ordered-list
// primitives the state tree is built from. Every update returns a new value
// and leaves its input untouched, so unchanged branches keep their identity.
package entity

import "github.com/google/uuid"

// ID is the stable, caller-generated identity of a domain object.
type ID string

// NewID generates a fresh random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Identified is implemented by list items that wrap an ID.
type Identified interface {
	EntityID() ID
}
