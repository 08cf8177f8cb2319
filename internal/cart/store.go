package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/co-developer342/fyp-wednesday/internal/catalog"
)

// ErrUnknownAttribute is returned by Add when a selection names an attribute
// key or option value the product does not have.
var ErrUnknownAttribute = fmt.Errorf("unknown attribute selection")

// Store holds the cart and writes it through to Storage after every
// mutation, so the persisted representation always equals the in-memory one
// when a mutating call returns.
//
// All mutation goes through the Store; callers never touch the underlying
// slice directly. Mutations are serialized by an internal mutex, so there is
// never a race between concurrent Add/Remove/UpdateAttribute calls and reads
// always see a consistent snapshot.
type Store struct {
	storage Storage
	logger  *zap.Logger

	mu    sync.Mutex
	items []LineItem
}

// NewStore rehydrates the cart from storage. Absent, empty, or corrupt
// persisted data yields an empty cart; corruption is logged and never
// surfaced to the caller.
func NewStore(ctx context.Context, storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{storage: storage, logger: logger}

	data, err := storage.Load(ctx)
	if err != nil {
		logger.Warn("cart rehydrate: load failed, starting empty", zap.Error(err))
		return s
	}
	if len(data) == 0 {
		return s
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("cart rehydrate: corrupt payload, starting empty", zap.Error(err))
		return s
	}
	s.items = items
	return s
}

// Add appends a new line item snapshotting p. selected may be nil (no
// variant chosen). Adding the same product twice yields two line items.
func (s *Store) Add(ctx context.Context, p *catalog.Product, selected map[string]SelectedAttribute) (LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, sel := range selected {
		if _, ok := p.Option(key, sel.Value); !ok {
			return LineItem{}, fmt.Errorf("%w: %s=%s on product %s", ErrUnknownAttribute, key, sel.Value, p.ID)
		}
	}

	item := LineItem{
		LineID:     uuid.NewString(),
		ProductID:  p.ID,
		Slug:       p.Slug,
		Name:       p.Name,
		BasePrice:  p.BasePrice,
		Attributes: copyAttributes(p.Attributes),
		Selected:   copySelections(selected),
	}

	s.items = append(s.items, item)
	if err := s.persist(ctx); err != nil {
		return item, err
	}
	return item, nil
}

// Remove drops every line item whose product id equals productID. This is
// the legacy identity: all variants of the product go at once.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persist(ctx)
}

// RemoveLine drops the single line item with the given line id.
func (s *Store) RemoveLine(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.LineID != lineID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persist(ctx)
}

// UpdateAttribute sets selected[key] on every line item matching productID.
// A productID with no matching lines is a no-op, not an error.
func (s *Store) UpdateAttribute(ctx context.Context, productID, key, value string, priceDelta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].setSelection(key, value, priceDelta)
		}
	}
	return s.persist(ctx)
}

// UpdateLineAttribute sets selected[key] on the single line item with the
// given line id. Unknown line ids are a no-op.
func (s *Store) UpdateLineAttribute(ctx context.Context, lineID, key, value string, priceDelta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].LineID == lineID {
			s.items[i].setSelection(key, value, priceDelta)
		}
	}
	return s.persist(ctx)
}

// Clear empties the cart and removes the persisted key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart storage: %w", err)
	}
	return nil
}

// Items returns a deep copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	for i, it := range s.items {
		out[i] = it
		out[i].Attributes = copyAttributes(it.Attributes)
		out[i].Selected = copySelections(it.Selected)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := s.storage.Save(ctx, data); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (it *LineItem) setSelection(key, value string, priceDelta float64) {
	if it.Selected == nil {
		it.Selected = make(map[string]SelectedAttribute, 1)
	}
	it.Selected[key] = SelectedAttribute{Value: value, PriceDelta: priceDelta}
}

func copyAttributes(specs []catalog.AttributeSpec) []catalog.AttributeSpec {
	if specs == nil {
		return nil
	}
	out := make([]catalog.AttributeSpec, len(specs))
	for i, spec := range specs {
		out[i] = spec
		out[i].Options = append([]catalog.AttributeOption(nil), spec.Options...)
	}
	return out
}

func copySelections(selected map[string]SelectedAttribute) map[string]SelectedAttribute {
	if selected == nil {
		return nil
	}
	out := make(map[string]SelectedAttribute, len(selected))
	for k, v := range selected {
		out[k] = v
	}
	return out
}
