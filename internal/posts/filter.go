package posts

import "fmt"

// Filter narrows the feed query. The zero value matches every eligible post.
// Text and Tag combine with AND when both are set.
type Filter struct {
	// Text matches case-insensitively against the caption, the author name
	// and the author handle.
	Text string
	// Tag requires the post to carry a tag with this exact name.
	Tag string
}

// IsZero reports whether the filter applies no narrowing at all.
func (f Filter) IsZero() bool {
	return f.Text == "" && f.Tag == ""
}

// conditions renders the filter as SQL predicates over the aliases used by
// the repository's feed query (p = posts, u = users). Placeholder numbering
// starts at start.
func (f Filter) conditions(start int) ([]string, []any) {
	var (
		conds []string
		args  []any
	)

	n := start
	if f.Text != "" {
		conds = append(conds, fmt.Sprintf(
			"(p.caption ILIKE $%d OR u.name ILIKE $%d OR u.handle ILIKE $%d)", n, n, n))
		args = append(args, "%"+f.Text+"%")
		n++
	}
	if f.Tag != "" {
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_tags ft JOIN tags t ON t.id = ft.tag_id WHERE ft.post_id = p.id AND t.name = $%d)", n))
		args = append(args, f.Tag)
	}

	return conds, args
}
