package services

import (
	"fmt"

	"github.com/rahhaltours/admin-backend/internal/database"
)

// decodeAll unmarshals every record of a collection into typed values.
func decodeAll[T any](records []database.Record) ([]*T, error) {
	out := make([]*T, 0, len(records))
	for _, record := range records {
		item := new(T)
		if err := record.Decode(item); err != nil {
			return nil, fmt.Errorf("failed to decode record %s: %w", record.ID, err)
		}
		out = append(out, item)
	}
	return out, nil
}
