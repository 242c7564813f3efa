// Package catalog loads the cleaned player catalog from a CSV export or from PostgreSQL.
package catalog

import "fmt"

// DataUnavailableError indicates the catalog source is missing, unreadable or empty.
type DataUnavailableError struct {
	Source string
	Cause  error
}

func (e *DataUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("player data unavailable from %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("player data unavailable from %s", e.Source)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Cause
}
