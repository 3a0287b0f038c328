// Package runid generates identifiers for import runs.
package runid

import googleuuid "github.com/google/uuid"

// New returns a UUIDv7 string. UUIDv7 is time-ordered, so run ids sort in the
// order the runs started.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to a random UUIDv4 if the clock sequence cannot be read.
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
