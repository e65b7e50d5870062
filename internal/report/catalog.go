// Package report groups resolved receipt rows and builds the per-person
// product summaries and output artifacts.
package report

import (
	"fmt"

	"lagardere/internal/util"
)

// Catalog is the fixed canonical product list, partitioned into brand
// ranges. The boundary product of each brand triggers a subtotal row right
// after it in summary order.
type Catalog struct {
	Order      []string
	Boundaries map[string]string
	Brands     map[string][]string
}

var productOrder = []string{
	"PAZ X-Freeze",
	"PAZ X-Freeze +",
	"PAZ Cool Mint",
	"PAZ Cool mint +",
	"PAZ Lush ice",
	"PAZ Lush ice +",
	"PAZ Mango",
	"PAZ Mango winter +",
	"PAZ Berry frost",
	"PAZ Berry frost +",
	"V&YOU Boost+ Cool Berry",
	"V&YOU Boost+ Intense Mint",
	"V&YOU Boost+ Fresh Citrus",
	"V&YOU Boost+ Blueberry Ice",
	"V&YOU Boost+ Spearmint",
	"V&YOU Boost+ Grape soda",
	"V&YOU Boost+ Berry Fizz",
	"V&YOU Boost+ Mint Freeze",
	"V&YOU Boost+ Berry Kiwi rush",
	"V&YOU Boost+ Tropical fusion",
	"V&YOU Boost Max Frostbite",
	"V&YOU Boost Max Frutti Blast",
	"V&YOU Boost Max Savage mango",
	"01 Riot Kit Cherry cola",
	"02 Riot Kit Pink lemonade",
	"03 Riot Kit Mango peach pineapple",
	"04 Riot Kit Grape ice",
	"05 Riot Kit Blueberry sour raspberry",
	"01 Riot Capsule Cherry cola",
	"02 Riot Capsule Pink lemonade",
	"03 Riot Capsule Mango peach pineapple",
	"04 Riot Capsule Grape ice",
	"05 Riot Capsule Blueberry sour raspberry",
	"06 Riot Capsule Strawberry blueberry ice",
	"07 Riot Capsule Blue cherry burst",
	"08 Riot Capsule Classic tobacoo",
	"09 Riot Capsule Banana Ice",
	"10 Riot Capsule Lime",
	"11 Riot Capsule Strawberry Kiwi Apple",
	"12 Riot Capsule Triple Mint",
}

// DefaultCatalog returns the product configuration currently shipped by the
// distributor: PAZ, V&YOU, RIOT Kit and RIOT Capsule ranges.
func DefaultCatalog() Catalog {
	return Catalog{
		Order: productOrder,
		Boundaries: map[string]string{
			"PAZ Berry frost +":                    "PAZ",
			"V&YOU Boost Max Savage mango":         "V&YOU",
			"05 Riot Kit Blueberry sour raspberry": "RIOT Kit",
			"12 Riot Capsule Triple Mint":          "RIOT Capsule",
		},
		Brands: map[string][]string{
			"PAZ":          productOrder[0:10],
			"V&YOU":        productOrder[10:23],
			"RIOT Kit":     productOrder[23:28],
			"RIOT Capsule": productOrder[28:40],
		},
	}
}

// Validate fails on configuration inconsistency: a boundary outside the
// order, a boundary naming an unknown brand, or a brand without products.
// This is the only fatal error class during aggregation.
func (c Catalog) Validate() error {
	known := map[string]struct{}{}
	for _, product := range c.Order {
		norm := util.NormalizeProduct(product)
		if _, ok := known[norm]; ok {
			return fmt.Errorf("catalog: duplicate product %q", product)
		}
		known[norm] = struct{}{}
	}

	for boundary, brand := range c.Boundaries {
		if _, ok := known[util.NormalizeProduct(boundary)]; !ok {
			return fmt.Errorf("catalog: boundary product %q not in product order", boundary)
		}
		products, ok := c.Brands[brand]
		if !ok {
			return fmt.Errorf("catalog: boundary %q references undefined brand %q", boundary, brand)
		}
		if len(products) == 0 {
			return fmt.Errorf("catalog: brand %q has no products", brand)
		}
		for _, product := range products {
			if _, ok := known[util.NormalizeProduct(product)]; !ok {
				return fmt.Errorf("catalog: brand %q product %q not in product order", brand, product)
			}
		}
	}

	return nil
}
