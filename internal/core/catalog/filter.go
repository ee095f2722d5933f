package catalog

// FilterByCategory selects products matching the requested category,
// preserving relative order. An empty category or the CategoryAll
// sentinel returns the input unchanged. The function is total: empty
// input or a category with no matches yields an empty slice, never an
// error.
//
// Publication state is not considered here - the public listing
// restricts to published products upstream, the admin listing does not.
func FilterByCategory(products []Product, category string) []Product {
	if category == "" || category == CategoryAll {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
