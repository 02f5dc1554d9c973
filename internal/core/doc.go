// Package core provides the business logic for importing database dumps.
//
// The package holds the import pipeline independent of the CLI and of the
// destination database. It can be driven by the command, by tests against
// an in-memory store, or by any other caller holding a [store.Store].
//
// # Table Registry
//
// Tables are registered at init time using [Register]. Each [TableDefinition]
// names the dump table it reads, its position in the run and how a record
// becomes a destination row:
//
//	core.Register(TableDefinition{
//	    Info:      TableInfo{Key: "tags", Source: "tags", Label: "Tags", Order: 10},
//	    Policy:    KeepExisting,
//	    Transform: transformTag,
//	})
//
// # Import Run
//
// [Service.Import] reads the dump once, collecting the COPY block of every
// selected table, and then writes the tables in order inside a single
// transaction:
//
//  1. Each record is transformed into an [Entity]
//  2. The entity is written inside its own savepoint using the table's [WritePolicy]
//  3. A failed row is rolled back to its savepoint and recorded in the result
//  4. The transaction is committed once every table has been processed
//
// Errors that leave the transaction unusable roll the whole run back; the
// destination is either fully updated or unchanged.
//
// # Error Handling
//
// Row failures are mapped to codes using [MapError]:
//
//   - DB001-DB007: Database errors (duplicates, constraints, connections)
//   - ROW001-ROW002: Record errors (missing key, skipped)
package core
