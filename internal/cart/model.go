package cart

import "github.com/co-developer342/fyp-wednesday/internal/catalog"

// SelectedAttribute is the chosen option for one attribute key, with the
// price delta that option carried when it was selected.
type SelectedAttribute struct {
	Value      string  `json:"value"`
	PriceDelta float64 `json:"price"`
}

// LineItem is one unit of a product in the cart with a specific attribute
// selection. The product fields are a snapshot taken at Add time so the cart
// stays renderable even if the catalog changes underneath it.
//
// LineID uniquely identifies the line; two Adds of the same product yield two
// lines with distinct LineIDs.
type LineItem struct {
	LineID     string                       `json:"lineId"`
	ProductID  string                       `json:"productId"`
	Slug       string                       `json:"slug"`
	Name       string                       `json:"name"`
	BasePrice  float64                      `json:"price"`
	Attributes []catalog.AttributeSpec      `json:"attributes,omitempty"`
	Selected   map[string]SelectedAttribute `json:"selectedAttributes,omitempty"`
}

// DefaultSelections preselects the first option of every attribute of p,
// matching how the product page initialises its dropdowns.
func DefaultSelections(p *catalog.Product) map[string]SelectedAttribute {
	selected := make(map[string]SelectedAttribute, len(p.Attributes))
	for _, spec := range p.Attributes {
		if len(spec.Options) == 0 {
			continue
		}
		selected[spec.Key] = SelectedAttribute{
			Value:      spec.Options[0].Value,
			PriceDelta: spec.Options[0].PriceDelta,
		}
	}
	return selected
}
