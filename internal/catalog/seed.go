package catalog

// DefaultSeed returns the built-in pilot catalog used when no catalog
// file is configured.
func DefaultSeed() map[string][]Product {
	return map[string][]Product{
		"vendor_123": {
			{ID: "prod_1", Name: "White & Black Stroke Art Abstract Pattern Shirt", Brand: "nike"},
			{ID: "prod_2", Name: "Black Liquid Art Aloha Shirt", Brand: "nike"},
			{ID: "prod_3", Name: "Neon Tropical Pattern Aloha Shirt", Brand: "adidas"},
			{ID: "prod_4", Name: "Modern Abstract Art Aloha Shirt", Brand: "adidas"},
			{ID: "prod_5", Name: "Bright Tropical Print Aloha Shirt", Brand: "nike"},
			{ID: "prod_6", Name: "Multicoloured Geometric Pattern Aloha Shirt", Brand: "puma"},
			{ID: "prod_7", Name: "Blue & Black Abstract Art Pattern Aloha Shirt", Brand: "puma"},
			{ID: "prod_8", Name: "Abstract Pattern Aloha Shirt", Brand: "puma"},
			{ID: "prod_9", Name: "Green Abstract Pattern Aloha Shirt", Brand: "puma"},
			{ID: "prod_10", Name: "White & Sky Blue Tie Dye Pattern Aloha Shirt", Brand: "puma"},
			{ID: "prod_11", Name: "Plain Red & Black Tie Dye Pattern Aloha Shirt", Brand: "puma"},
			{ID: "prod_12", Name: "Black & White Tie Dye Pattern Aloha Shirt", Brand: "puma"},
			{ID: "prod_13", Name: "Grey & White Tie Dye Pattern Aloha Shirt", Brand: "puma"},
		},
		"vendor_456": {
			{ID: "prod_14", Name: "Classic Leather Wallet", Brand: "gucci"},
			{ID: "prod_15", Name: "Stainless Steel Watch", Brand: "gucci"},
			{ID: "prod_16", Name: "Canvas Backpack", Brand: "gucci"},
			{ID: "prod_17", Name: "Sunglasses", Brand: "gucci"},
		},
	}
}
