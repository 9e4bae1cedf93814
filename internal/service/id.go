package service

import "github.com/oklog/ulid/v2"

// newULID generates a lexicographically sortable unique id for new entities.
func newULID() string {
	return ulid.Make().String()
}
