package product

// Product is one purchased item as captured at placement time. The snapshot
// is stored on the order row, so later catalog changes never affect it.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
	Details    string `json:"details,omitempty"`
}

// TotalCents sums the prices of the given products.
func TotalCents(products []Product) int64 {
	var total int64
	for _, p := range products {
		total += p.PriceCents
	}

	return total
}
