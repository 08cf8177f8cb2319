package catalog

// AttributeOption is one selectable value of a variant attribute, with the
// price adjustment it carries on top of the product's base price.
type AttributeOption struct {
	Value      string  `json:"value"`
	PriceDelta float64 `json:"price"`
}

// AttributeSpec is a variant attribute of a product, e.g. key "Size" with
// options S/M/L. Keys are unique within a product; option order is the
// display order.
type AttributeSpec struct {
	Key     string            `json:"key"`
	Options []AttributeOption `json:"values"`
}

type Product struct {
	ID          string          `json:"productId"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   float64         `json:"price"`
	CategoryID  string          `json:"categoryId"`
	Attributes  []AttributeSpec `json:"attributes,omitempty"`
}

// Option returns the option with the given value under the given attribute
// key, or false when either is unknown to this product.
func (p *Product) Option(key, value string) (AttributeOption, bool) {
	for _, spec := range p.Attributes {
		if spec.Key != key {
			continue
		}
		for _, opt := range spec.Options {
			if opt.Value == value {
				return opt, true
			}
		}
		return AttributeOption{}, false
	}
	return AttributeOption{}, false
}
