package feed

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"trovekeep/internal/services"
)

// expirationLayout matches the feed's naive timestamp format. Fractional
// seconds in the value are accepted by time.Parse without appearing in the
// layout. The timestamp carries no zone; the feed means UTC.
const expirationLayout = "2006-01-02T15:04:05"

// Snapshot is one point-in-time, fully assembled and de-duplicated catalog.
// Raw is the exact serialized text captured at assembly time; it is what
// gets persisted and diffed, and is never re-derived from the parsed
// structures.
type Snapshot struct {
	Products      []Product
	NewlyAdded    []Product
	PlatformOrder []string
	ExpiresAt     time.Time
	Raw           []byte
}

// Expired reports whether the snapshot's next-addition timestamp has
// passed. Pure predicate, no side effects.
func (s *Snapshot) Expired(now time.Time) bool {
	return now.UTC().After(s.ExpiresAt)
}

// Contains reports whether a product with the given machine name is in the
// snapshot.
func (s *Snapshot) Contains(machineName string) bool {
	for _, product := range s.Products {
		if product.MachineName == machineName {
			return true
		}
	}
	return false
}

// ParseSnapshot decodes captured snapshot text and normalizes it: the
// standard list is de-duplicated first-seen-wins by machine name, the newly
// added list is merged in under the same rule, and the result is sorted
// alphabetically by display name. Load paths re-apply the dedupe
// deliberately, defending against stale files that predate the rule.
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var decoded payload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, services.Wrap(services.ErrParse, "feed", "decode snapshot", "", err)
	}

	expiresAt, err := time.Parse(expirationLayout, decoded.CountdownTimerOptions.NextAdditionTime)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "feed", "parse expiration",
			decoded.CountdownTimerOptions.NextAdditionTime, err)
	}

	products := mergeProducts(decoded.StandardProducts, decoded.NewlyAdded)
	sortByDisplayName(products)

	return &Snapshot{
		Products:      products,
		NewlyAdded:    decoded.NewlyAdded,
		PlatformOrder: decoded.DownloadPlatformOrder,
		ExpiresAt:     expiresAt.UTC(),
		Raw:           raw,
	}, nil
}

// mergeProducts concatenates the standard and newly added lists, keeping
// the first occurrence of each machine name.
func mergeProducts(standard, newlyAdded []Product) []Product {
	seen := make(map[string]struct{}, len(standard))
	merged := make([]Product, 0, len(standard)+len(newlyAdded))
	for _, product := range standard {
		if _, ok := seen[product.MachineName]; ok {
			continue
		}
		seen[product.MachineName] = struct{}{}
		merged = append(merged, product)
	}
	for _, product := range newlyAdded {
		if _, ok := seen[product.MachineName]; ok {
			continue
		}
		seen[product.MachineName] = struct{}{}
		merged = append(merged, product)
	}
	return merged
}

func sortByDisplayName(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].HumanName) < strings.ToLower(products[j].HumanName)
	})
}

// SortNewestFirst orders products by date added, newest first. Listing
// convenience; assembly always stores the alphabetical order.
func SortNewestFirst(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].DateAdded > products[j].DateAdded
	})
}
