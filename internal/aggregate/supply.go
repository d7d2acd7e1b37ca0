// Package aggregate computes derived view fields for demands: the remaining
// supply ledger and fulfillment counts. Everything here is pure; inputs are
// never mutated and identical inputs always produce identical output.
package aggregate

import (
	"math"
	"strings"

	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
)

type itemKey struct {
	name string
	unit string
}

// RemainingSupplyItems computes, per requested item, the quantity still
// needed after subtracting every donation in the given set. Donations are
// summed by (itemName, unit); remaining quantities clamp at zero and items
// fully covered are dropped rather than reported as zero. The requested
// items' relative order is preserved.
//
// Malformed donation records (non-positive, NaN or infinite quantities) are
// skipped individually; they never abort the recomputation.
func RemainingSupplyItems(requested []demanddomain.SupplyItem, donations []fulfillmentdomain.Donation) []demanddomain.SupplyItem {
	donated := make(map[itemKey]float64, len(donations))
	for _, d := range donations {
		if !validQuantity(d.Quantity) {
			continue
		}
		key := keyOf(d.ItemName, d.Unit)
		if key.name == "" {
			continue
		}
		donated[key] += d.Quantity
	}

	remaining := make([]demanddomain.SupplyItem, 0, len(requested))
	for _, item := range requested {
		if !validQuantity(item.Quantity) {
			continue
		}
		left := item.Quantity - donated[keyOf(item.ItemName, item.Unit)]
		if left <= 0 {
			continue
		}
		remaining = append(remaining, demanddomain.SupplyItem{
			ItemName: item.ItemName,
			Quantity: left,
			Unit:     item.Unit,
		})
	}
	return remaining
}

func keyOf(name, unit string) itemKey {
	return itemKey{
		name: strings.TrimSpace(name),
		unit: strings.TrimSpace(unit),
	}
}

func validQuantity(q float64) bool {
	return q > 0 && !math.IsNaN(q) && !math.IsInf(q, 0)
}
