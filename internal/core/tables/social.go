package tables

import (
	"fmt"

	"github.com/JonMunkholm/dumpimport/internal/core"
	"github.com/JonMunkholm/dumpimport/internal/dump"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

func init() {
	registerSocialLinks()
}

// Social links have no unique constraint on the URL, so an existing link
// is looked up and updated in place instead of relying on ON CONFLICT.
func registerSocialLinks() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:    "social_links",
			Source: "social_links",
			Label:  "Social links",
			Order:  orderSocialLinks,
		},
		Policy:    core.MatchThenWrite,
		Transform: transformSocialLink,
		Columns:   []string{"link", "display_name"},
	})
}

func transformSocialLink(rec dump.RawRecord) (core.Entity, error) {
	displayName := core.TextOr(rec, "display_name", "Social Link")

	link, ok := core.FirstNonBlank(rec, "link")
	if !ok {
		return core.Entity{Label: displayName}, fmt.Errorf("%w: no URL", core.ErrSkipRow)
	}

	return core.Entity{
		Label: displayName,
		Key:   store.Field{Column: "link", Value: link},
		Fields: append([]store.Field{
			{Column: "display_name", Value: displayName},
			{Column: "icon_shortcode", Value: core.TextOr(rec, "icon_shortcode", "fas fa-link")},
		}, timestamps(rec)...),
	}, nil
}
