package tables

import (
	"fmt"

	"github.com/JonMunkholm/dumpimport/internal/core"
	"github.com/JonMunkholm/dumpimport/internal/dump"
	"github.com/JonMunkholm/dumpimport/internal/store"
)

func init() {
	registerBlogPosts()
	registerProjectPosts()
}

func registerBlogPosts() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:    "blog_posts",
			Source: "blog_posts",
			Label:  "Blog posts",
			Order:  orderBlogPosts,
		},
		Policy:    core.Overwrite,
		Transform: transformBlogPost,
		Columns:   []string{"title"},
	})
}

func registerProjectPosts() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:    "project_posts",
			Source: "project_posts",
			Label:  "Project posts",
			Order:  orderProjectPosts,
		},
		Policy:    core.Overwrite,
		Transform: transformProjectPost,
		Columns:   []string{"title"},
	})
}

// postKey returns the row's slug, derived from the title when the dump
// has none.
func postKey(rec dump.RawRecord, title string) (store.Field, error) {
	slug, ok := core.FirstNonBlank(rec, "slug")
	if !ok {
		slug = core.Slugify(title)
	}
	if slug == "" {
		return store.Field{}, fmt.Errorf("%w: slug from title %q is empty", core.ErrMissingKey, title)
	}
	return store.Field{Column: "slug", Value: slug}, nil
}

// published reports whether the post has a publication timestamp.
func published(rec dump.RawRecord) store.Field {
	return store.Field{Column: "is_published", Value: core.ToPgBool(core.IsSet(rec, "published_at"))}
}

func transformBlogPost(rec dump.RawRecord) (core.Entity, error) {
	title := core.TextOr(rec, "title", "Untitled")

	key, err := postKey(rec, title)
	if err != nil {
		return core.Entity{Label: title}, err
	}

	return core.Entity{
		Label: title,
		Key:   key,
		Fields: append([]store.Field{
			{Column: "title", Value: title},
			{Column: "post_content", Value: core.TextOr(rec, "post_content", "")},
			{Column: "post_summary", Value: core.NullableText(rec, "post_summary")},
			{Column: "likes", Value: core.ToPgInt4(core.ParseIntLenient(rec.Text("likes")))},
			published(rec),
		}, timestamps(rec)...),
	}, nil
}

func transformProjectPost(rec dump.RawRecord) (core.Entity, error) {
	title := core.TextOr(rec, "title", "Untitled Project")

	key, err := postKey(rec, title)
	if err != nil {
		return core.Entity{Label: title}, err
	}

	return core.Entity{
		Label: title,
		Key:   key,
		Fields: append([]store.Field{
			{Column: "title", Value: title},
			{Column: "project_summary", Value: core.NullableText(rec, "project_summary")},
			{Column: "project_url", Value: core.NullableText(rec, "project_url")},
			published(rec),
		}, timestamps(rec)...),
	}, nil
}
