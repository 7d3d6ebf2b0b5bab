package catalog

// Product is the read model the order engine needs from the catalog:
// enough to validate availability and snapshot the sale.
type Product struct {
	ID            string
	Title         string
	Price         float64
	ImageURL      *string
	ArtisanID     string
	Status        string
	StockQuantity int
	SalesCount    int
}

const StatusActive = "active"

func (p *Product) Sellable() bool {
	return p.Status == StatusActive
}
