package catalog

import "github.com/five82/marquee/internal/tmdb"

// Dedup returns items with later duplicates of an ID removed. Order is
// preserved and the first occurrence wins.
func Dedup(items []tmdb.Item) []tmdb.Item {
	return Merge(nil, items)
}

// Merge appends incoming to existing, skipping any item whose ID is already
// present. existing is not modified.
func Merge(existing, incoming []tmdb.Item) []tmdb.Item {
	seen := make(map[int64]struct{}, len(existing)+len(incoming))
	out := make([]tmdb.Item, 0, len(existing)+len(incoming))
	for _, list := range [][]tmdb.Item{existing, incoming} {
		for _, item := range list {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}

func cloneItems(items []tmdb.Item) []tmdb.Item {
	if len(items) == 0 {
		return nil
	}
	dup := make([]tmdb.Item, len(items))
	copy(dup, items)
	return dup
}
