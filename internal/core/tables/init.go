// Package tables registers all table definitions with the core registry.
// Import this package to ensure all tables are registered.
//
// Import order follows the logical dependencies of the destination:
// reference data first, then the singleton landing page, then content that
// may refer to both.
package tables

import (
	"github.com/JonMunkholm/dumpimport/internal/core"
	"github.com/JonMunkholm/dumpimport/internal/dump"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

const (
	orderTags         = 10
	orderTechnologies = 20
	orderLandingPage  = 30
	orderSocialLinks  = 40
	orderBlogPosts    = 50
	orderProjectPosts = 60
)

// timestamps passes created_at and updated_at through verbatim. NULL or
// absent values are replaced with the current time by the store, and
// created_at is never overwritten.
func timestamps(rec dump.RawRecord) []store.Field {
	return []store.Field{
		{Column: "created_at", Value: core.NullableText(rec, "created_at"), Timestamp: true, InsertOnly: true},
		{Column: "updated_at", Value: core.NullableText(rec, "updated_at"), Timestamp: true},
	}
}
