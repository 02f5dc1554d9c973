package core

import (
	"strings"

	"github.com/JonMunkholm/dumpimport/internal/dump"
)

// MissingColumns returns the expected entries a block's header does not
// satisfy. An entry like "name|tag" is satisfied by either column.
func MissingColumns(cols *dump.ColumnList, expected []string) []string {
	var missing []string
	for _, entry := range expected {
		found := false
		for _, name := range strings.Split(entry, "|") {
			if cols.Has(name) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, entry)
		}
	}
	return missing
}
