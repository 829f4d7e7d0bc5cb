package engine

import (
	"fmt"

	"github.com/learnloop/edsearch"
)

// sourceSpec describes how one content category is queried and how its raw
// items map into search results.
type sourceSpec struct {
	// category names the content kind this spec serves.
	category edsearch.Category

	// searchFields are the text fields a query token may match; a single
	// token in any one of them is enough.
	searchFields []string

	// titleField holds the result title.
	titleField string

	// excerptField is the primary descriptive field excerpts come from.
	excerptField string

	// relations are included sub-objects the store should return by name.
	relations []string

	// meta extracts category-specific denormalized attributes.
	meta func(edsearch.Item) map[string]interface{}

	// url builds a deterministic path from a stable identifier.
	url func(edsearch.Item) string

	// difficultyField, when set, enables the difficulty membership filter.
	difficultyField string
}

// sourceSpecs lists the four known categories in their fixed merge order.
var sourceSpecs = []sourceSpec{
	{
		category:     edsearch.CategoryLessons,
		searchFields: []string{"title", "code", "summary"},
		titleField:   "title",
		excerptField: "summary",
		relations:    []string{"loop"},
		meta: func(it edsearch.Item) map[string]interface{} {
			m := map[string]interface{}{
				"difficulty": it.Strings("difficulty"),
			}
			if loop := it.Map("loop"); loop != nil {
				if title, ok := loop["title"].(string); ok {
					m["loopTitle"] = title
				}
			}
			return m
		},
		url: func(it edsearch.Item) string {
			if code := it.String("code"); code != "" {
				return "/lessons/" + code
			}
			return "/lessons/" + it.ID
		},
		difficultyField: "difficulty",
	},
	{
		category:     edsearch.CategoryKnowledgeCards,
		searchFields: []string{"title", "content"},
		titleField:   "title",
		excerptField: "content",
		meta: func(it edsearch.Item) map[string]interface{} {
			return map[string]interface{}{
				"tags": it.Strings("tags"),
			}
		},
		url: func(it edsearch.Item) string {
			return "/cards/" + it.ID
		},
	},
	{
		category:     edsearch.CategoryStudentWorks,
		searchFields: []string{"title", "description", "author"},
		titleField:   "title",
		excerptField: "description",
		meta: func(it edsearch.Item) map[string]interface{} {
			return map[string]interface{}{
				"author": it.String("author"),
			}
		},
		url: func(it edsearch.Item) string {
			return "/works/" + it.ID
		},
	},
	{
		category:     edsearch.CategoryResources,
		searchFields: []string{"name", "description"},
		titleField:   "name",
		excerptField: "description",
		meta: func(it edsearch.Item) map[string]interface{} {
			return map[string]interface{}{
				"kind": it.String("kind"),
			}
		},
		url: func(it edsearch.Item) string {
			return "/resources/" + it.ID
		},
	},
}

func specFor(category edsearch.Category) (sourceSpec, error) {
	for _, spec := range sourceSpecs {
		if spec.category == category {
			return spec, nil
		}
	}
	return sourceSpec{}, fmt.Errorf("unknown category %q", category)
}
