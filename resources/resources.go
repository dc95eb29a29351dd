// Package resources defines the time series and asset resources and their
// typed update builders.
package resources

import (
	"github.com/brunoga/update"
)

// Updater is implemented by the typed update builders.
type Updater interface {
	Patch() *update.Patch
}

// keyOf prefers a present id, including id 0, over the external id.
func keyOf(id *int64, externalID *string) (update.ResourceKey, error) {
	if id != nil {
		return update.ID(*id), nil
	}
	return update.NewResourceKey(nil, externalID)
}

func mustSchemaFor[T any]() *update.Schema {
	s, err := update.SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return s
}
