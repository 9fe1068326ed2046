package domain

// Area scopes marketplace reads to where the courier is.
type Area struct {
	City      string
	Country   string
	Latitude  float64
	Longitude float64
}

// Business is a marketplace listing.
type Business struct {
	ID       string
	Name     string
	Type     string
	Rating   float64
	IsOpen   bool
	Address  string
	Distance float64
}

// Category is a node of the marketplace category hierarchy.
type Category struct {
	ID       string
	Name     string
	Children []Category
}

// FeaturedItem is a promoted product.
type FeaturedItem struct {
	ID         string
	Name       string
	BusinessID string
	Price      float64
	ImageURL   string
}

// InventoryItem is a business item. Attributes follow the business type's field schema.
type InventoryItem struct {
	ID         string
	BusinessID string
	Name       string
	Attributes map[string]any
}

// Place is a reverse-geocoded position.
type Place struct {
	City    string
	Country string
	Address string
}
