package tables

import (
	"github.com/JonMunkholm/dumpimport/internal/core"
	"github.com/JonMunkholm/dumpimport/internal/dump"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

// landingPageID is the id of the single landing page row.
const landingPageID int64 = 1

func init() {
	registerLandingPage()
}

func registerLandingPage() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:    "landing_page_content",
			Source: "landing_pages",
			Label:  "Landing page",
			Order:  orderLandingPage,
		},
		Policy:    core.Overwrite,
		Select:    latestLandingPage,
		Transform: transformLandingPage,
		Columns:   []string{"header", "updated_at"},
	})
}

// latestLandingPage keeps the row with the greatest updated_at. Values are
// compared as strings, which orders ISO-8601 timestamps chronologically.
func latestLandingPage(records []dump.RawRecord) []dump.RawRecord {
	latest, ok := core.MaxBy(records, "updated_at")
	if !ok {
		return nil
	}
	return []dump.RawRecord{latest}
}

func transformLandingPage(rec dump.RawRecord) (core.Entity, error) {
	header := core.TextOr(rec, "header", "Welcome")

	return core.Entity{
		Label: header,
		Key:   store.Field{Column: "id", Value: landingPageID},
		Fields: append([]store.Field{
			{Column: "header", Value: header},
			{Column: "description", Value: core.TextOr(rec, "description", "")},
			{Column: "sub_headers", Value: core.TextOr(rec, "comma_separated_sub_headers_string", "")},
		}, timestamps(rec)...),
	}, nil
}
