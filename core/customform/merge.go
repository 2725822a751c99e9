package customform

import "sort"

// Merge returns all the elements of doc in a single list sorted by order.
// Elements with no order sort as order 1. Elements are not copied.
// Nil elements are skipped; NewForm reports them.
func Merge(doc Document) []Element {
	merged := make([]Element, 0, doc.Len())
	for _, c := range Collections {
		for _, el := range doc.Elements(c) {
			if !isNilElement(el) {
				merged = append(merged, el)
			}
		}
	}
	// equal orders are an integrity bug upstream; keep collection order for them
	sort.SliceStable(merged, func(i, j int) bool {
		return sortKey(merged[i]) < sortKey(merged[j])
	})
	return merged
}
