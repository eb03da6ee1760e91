package feedstore

import "trovekeep/internal/feed"

// Changes is the membership difference between two snapshots, keyed by
// machine name. Display names and other fields play no part in identity.
type Changes struct {
	Added   []feed.Product
	Removed []feed.Product
}

// Empty reports whether the two snapshots hold the same set of products.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares the current snapshot against an older one. Added products
// appear in current but not older; removed products the reverse. Each list
// preserves the order of the snapshot it came from.
func Diff(current, older *feed.Snapshot) Changes {
	inOlder := make(map[string]struct{}, len(older.Products))
	for _, product := range older.Products {
		inOlder[product.MachineName] = struct{}{}
	}
	inCurrent := make(map[string]struct{}, len(current.Products))
	for _, product := range current.Products {
		inCurrent[product.MachineName] = struct{}{}
	}

	var changes Changes
	for _, product := range current.Products {
		if _, ok := inOlder[product.MachineName]; !ok {
			changes.Added = append(changes.Added, product)
		}
	}
	for _, product := range older.Products {
		if _, ok := inCurrent[product.MachineName]; !ok {
			changes.Removed = append(changes.Removed, product)
		}
	}
	return changes
}
