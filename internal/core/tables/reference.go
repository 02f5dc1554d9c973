package tables

import (
	"fmt"

	"github.com/JonMunkholm/dumpimport/internal/core"
	"github.com/JonMunkholm/dumpimport/internal/dump"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

func init() {
	registerTags()
	registerTechnologies()
}

// Tags and technologies keep the first row seen for a name: an existing row
// is never updated.

func registerTags() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:    "tags",
			Source: "tags",
			Label:  "Tags",
			Order:  orderTags,
		},
		Policy:    core.KeepExisting,
		Transform: namedTransform("tag"),
		Columns:   []string{"name|tag"},
	})
}

func registerTechnologies() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:    "technologies",
			Source: "technologies",
			Label:  "Technologies",
			Order:  orderTechnologies,
		},
		Policy:    core.KeepExisting,
		Transform: namedTransform("technology"),
		Columns:   []string{"name|technology"},
	})
}

// namedTransform keys a row by its name column, falling back to altColumn.
func namedTransform(altColumn string) core.TransformFunc {
	return func(rec dump.RawRecord) (core.Entity, error) {
		name, ok := core.FirstNonBlank(rec, "name", altColumn)
		if !ok {
			return core.Entity{Label: "(unnamed)"}, fmt.Errorf("%w: name", core.ErrMissingKey)
		}
		return core.Entity{
			Label:  name,
			Key:    store.Field{Column: "name", Value: name},
			Fields: timestamps(rec),
		}, nil
	}
}
