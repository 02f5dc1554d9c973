package core

import (
	"reflect"
	"testing"

	"github.com/JonMunkholm/dumpimport/internal/dump"
)

func TestMissingColumns(t *testing.T) {
	cols := dump.NewColumnList([]string{"id", "tag", "created_at"})

	tests := []struct {
		name     string
		expected []string
		want     []string
	}{
		{"none expected", nil, nil},
		{"all present", []string{"id", "created_at"}, nil},
		{"alternative satisfies", []string{"name|tag"}, nil},
		{"missing reported", []string{"id", "slug|title", "updated_at"}, []string{"slug|title", "updated_at"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingColumns(cols, tt.expected)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingColumns() = %v, want %v", got, tt.want)
			}
		})
	}
}
