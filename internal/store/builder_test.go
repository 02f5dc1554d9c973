package store

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postWrite(policy ConflictPolicy) Write {
	return Write{
		Table:  "blog_posts",
		Key:    Field{Column: "slug", Value: "hello-world"},
		Policy: policy,
		Fields: []Field{
			{Column: "title", Value: "Hello, World!"},
			{Column: "created_at", Value: pgtype.Text{}, Timestamp: true, InsertOnly: true},
			{Column: "updated_at", Value: pgtype.Text{String: "2024-01-01", Valid: true}, Timestamp: true},
		},
	}
}

func TestBuildUpsert(t *testing.T) {
	tests := []struct {
		name    string
		dialect dialect
		policy  ConflictPolicy
		want    string
	}{
		{
			name:    "postgres update",
			dialect: postgresDialect{},
			policy:  ConflictUpdate,
			want: `INSERT INTO "blog_posts" ("slug", "title", "created_at", "updated_at") ` +
				`VALUES ($1, $2, COALESCE($3::text::timestamp, NOW()), COALESCE($4::text::timestamp, NOW())) ` +
				`ON CONFLICT ("slug") DO UPDATE SET "title" = EXCLUDED."title", "updated_at" = EXCLUDED."updated_at" ` +
				`RETURNING "id"::text`,
		},
		{
			name:    "postgres ignore",
			dialect: postgresDialect{},
			policy:  ConflictIgnore,
			want: `INSERT INTO "blog_posts" ("slug", "title", "created_at", "updated_at") ` +
				`VALUES ($1, $2, COALESCE($3::text::timestamp, NOW()), COALESCE($4::text::timestamp, NOW())) ` +
				`ON CONFLICT ("slug") DO NOTHING RETURNING "id"::text`,
		},
		{
			name:    "sqlite fail",
			dialect: sqliteDialect{},
			policy:  ConflictFail,
			want: `INSERT INTO "blog_posts" ("slug", "title", "created_at", "updated_at") ` +
				`VALUES (?, ?, COALESCE(?, CURRENT_TIMESTAMP), COALESCE(?, CURRENT_TIMESTAMP)) ` +
				`RETURNING CAST("id" AS TEXT)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildUpsert(tt.dialect, postWrite(tt.policy))
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			require.Len(t, args, 4)
			assert.Equal(t, "hello-world", args[0])
		})
	}
}

func TestBuildUpsert_UpdateWithoutMutableFields(t *testing.T) {
	w := Write{
		Table:  "tags",
		Key:    Field{Column: "name", Value: "Go"},
		Policy: ConflictUpdate,
		Fields: []Field{{Column: "created_at", Value: nil, Timestamp: true, InsertOnly: true}},
	}

	query, _, err := buildUpsert(postgresDialect{}, w)
	require.NoError(t, err)
	assert.Contains(t, query, `ON CONFLICT ("name") DO NOTHING`)
}

func TestBuildUpsert_Invalid(t *testing.T) {
	_, _, err := buildUpsert(postgresDialect{}, Write{Key: Field{Column: "name"}})
	assert.Error(t, err)

	_, _, err = buildUpsert(postgresDialect{}, Write{Table: "tags"})
	assert.Error(t, err)
}

func TestBuildUpdate(t *testing.T) {
	query, args, err := buildUpdate(postgresDialect{}, postWrite(ConflictFail))
	require.NoError(t, err)

	assert.Equal(t,
		`UPDATE "blog_posts" SET "title" = $1, "updated_at" = COALESCE($2::text::timestamp, NOW()) `+
			`WHERE "slug" = $3 RETURNING "id"::text`,
		query)
	require.Len(t, args, 3)
	assert.Equal(t, "hello-world", args[2])
}

func TestBuildUpdate_NoMutableFields(t *testing.T) {
	w := Write{Table: "tags", Key: Field{Column: "name", Value: "Go"}}
	_, _, err := buildUpdate(sqliteDialect{}, w)
	assert.Error(t, err)
}

func TestBuildFind(t *testing.T) {
	query, args := buildFind(sqliteDialect{}, "social_links", Field{Column: "link", Value: "https://x"})
	assert.Equal(t, `SELECT CAST("id" AS TEXT) FROM "social_links" WHERE "link" = ? LIMIT 1`, query)
	assert.Equal(t, []any{"https://x"}, args)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"tags"`, quoteIdent("tags"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}

func TestConflictPolicyString(t *testing.T) {
	assert.Equal(t, "fail", ConflictFail.String())
	assert.Equal(t, "ignore", ConflictIgnore.String())
	assert.Equal(t, "update", ConflictUpdate.String())
}
