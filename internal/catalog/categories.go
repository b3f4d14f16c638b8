// Package catalog holds the static category registry for the storefront.
// The set of categories is part of the product contract shared with the
// frontends, so it lives in code rather than in the database.
package catalog

type Category struct {
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

var categories = []Category{
	{Key: "dresses", Name: "Dresses", Subcategories: []string{"Maxi", "Midi", "Mini", "Bodycon", "Evening"}},
	{Key: "tops", Name: "Tops", Subcategories: []string{"Blouses", "T-Shirts", "Crop Tops", "Bodysuits"}},
	{Key: "bottoms", Name: "Bottoms", Subcategories: []string{"Skirts", "Trousers", "Jeans", "Shorts"}},
	{Key: "outerwear", Name: "Outerwear", Subcategories: []string{"Jackets", "Blazers", "Coats"}},
	{Key: "shoes", Name: "Shoes", Subcategories: []string{"Heels", "Flats", "Sandals", "Sneakers"}},
	{Key: "bags", Name: "Bags", Subcategories: []string{"Handbags", "Clutches", "Totes"}},
	{Key: "accessories", Name: "Accessories", Subcategories: []string{"Jewelry", "Scarves", "Belts", "Sunglasses"}},
}

var byKey = func() map[string]Category {
	m := make(map[string]Category, len(categories))
	for _, c := range categories {
		m[c.Key] = c
	}
	return m
}()

// All returns the categories in storefront display order.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func Get(key string) (Category, bool) {
	c, ok := byKey[key]
	return c, ok
}

func Valid(key string) bool {
	_, ok := byKey[key]
	return ok
}

// DisplayName falls back to the raw key so unknown categories still render.
func DisplayName(key string) string {
	if c, ok := byKey[key]; ok {
		return c.Name
	}
	return key
}
