package core

import (
	"testing"

	"github.com/JonMunkholm/dumpimport/internal/dump"
)

func noopTransform(dump.RawRecord) (Entity, error) { return Entity{}, nil }

func TestSortByOrder(t *testing.T) {
	defs := []TableDefinition{
		{Info: TableInfo{Key: "posts", Order: 50}},
		{Info: TableInfo{Key: "b_tags", Order: 10}},
		{Info: TableInfo{Key: "a_tags", Order: 10}},
		{Info: TableInfo{Key: "landing", Order: 30}},
	}

	SortByOrder(defs)

	want := []string{"a_tags", "b_tags", "landing", "posts"}
	for i, key := range want {
		if defs[i].Info.Key != key {
			t.Errorf("defs[%d] = %q, want %q", i, defs[i].Info.Key, key)
		}
	}
}

func TestRegister(t *testing.T) {
	const key = "registry_test_table"
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, key)
		registryMu.Unlock()
	})

	before := TableCount()
	Register(TableDefinition{Info: TableInfo{Key: key}, Transform: noopTransform})

	def, ok := Get(key)
	if !ok {
		t.Fatal("Get() did not find registered table")
	}
	if def.Info.Source != key {
		t.Errorf("Info.Source = %q, want it to default to the key", def.Info.Source)
	}
	if TableCount() != before+1 {
		t.Errorf("TableCount() = %d, want %d", TableCount(), before+1)
	}

	t.Run("duplicate panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Register() should panic on a duplicate key")
			}
		}()
		Register(TableDefinition{Info: TableInfo{Key: key}, Transform: noopTransform})
	})

	t.Run("missing transform panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Register() should panic without a transform")
			}
		}()
		Register(TableDefinition{Info: TableInfo{Key: key + "_bare"}})
	})
}
