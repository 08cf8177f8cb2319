package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/co-developer342/fyp-wednesday/internal/catalog"
)

func shirtProduct() *catalog.Product {
	return &catalog.Product{
		ID:        "p1",
		Slug:      "plain-shirt",
		Name:      "Plain Shirt",
		BasePrice: 20.00,
		Attributes: []catalog.AttributeSpec{
			{
				Key: "Size",
				Options: []catalog.AttributeOption{
					{Value: "M", PriceDelta: 0},
					{Value: "XL", PriceDelta: 5.00},
				},
			},
			{
				Key: "Color",
				Options: []catalog.AttributeOption{
					{Value: "Black", PriceDelta: 0},
					{Value: "Red", PriceDelta: 1.50},
				},
			},
		},
	}
}

func mugProduct() *catalog.Product {
	return &catalog.Product{ID: "p2", Slug: "mug", Name: "Mug", BasePrice: 7.50}
}

// persistedItems decodes what the store actually wrote, so tests can assert
// the in-memory cart and the persisted cart are equal after every mutation.
func persistedItems(t *testing.T, storage Storage) []LineItem {
	t.Helper()
	data, err := storage.Load(context.Background())
	require.NoError(t, err)
	if data == nil {
		return nil
	}
	var items []LineItem
	require.NoError(t, json.Unmarshal(data, &items))
	return items
}

func TestAddAppendsWithoutDedup(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	first, err := store.Add(ctx, shirtProduct(), nil)
	require.NoError(t, err)
	second, err := store.Add(ctx, shirtProduct(), map[string]SelectedAttribute{
		"Size": {Value: "XL", PriceDelta: 5.00},
	})
	require.NoError(t, err)

	require.Equal(t, 2, store.Len())
	assert.NotEqual(t, first.LineID, second.LineID)
	assert.Equal(t, "p1", first.ProductID)
	assert.Equal(t, "p1", second.ProductID)

	assert.Equal(t, store.Items(), persistedItems(t, storage))
}

func TestAddRejectsUnknownSelection(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), zap.NewNop())

	_, err := store.Add(ctx, shirtProduct(), map[string]SelectedAttribute{
		"Size": {Value: "XXL", PriceDelta: 9.00},
	})
	require.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = store.Add(ctx, shirtProduct(), map[string]SelectedAttribute{
		"Material": {Value: "Wool", PriceDelta: 2.00},
	})
	require.ErrorIs(t, err, ErrUnknownAttribute)

	assert.Equal(t, 0, store.Len())
}

func TestRemoveDropsAllVariantsOfProduct(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	_, err := store.Add(ctx, shirtProduct(), nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, shirtProduct(), map[string]SelectedAttribute{
		"Size": {Value: "XL", PriceDelta: 5.00},
	})
	require.NoError(t, err)
	_, err = store.Add(ctx, mugProduct(), nil)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, "p1"))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)
	assert.Equal(t, items, persistedItems(t, storage))
}

func TestRemoveAddRemoveNetsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), zap.NewNop())

	_, err := store.Add(ctx, mugProduct(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, "p2"))

	_, err = store.Add(ctx, mugProduct(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Remove(ctx, "p2"))

	assert.Equal(t, 0, store.Len())
}

func TestRemoveLineDropsSingleVariant(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), zap.NewNop())

	kept, err := store.Add(ctx, shirtProduct(), nil)
	require.NoError(t, err)
	dropped, err := store.Add(ctx, shirtProduct(), map[string]SelectedAttribute{
		"Size": {Value: "XL", PriceDelta: 5.00},
	})
	require.NoError(t, err)

	require.NoError(t, store.RemoveLine(ctx, dropped.LineID))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, kept.LineID, items[0].LineID)
}

func TestUpdateAttribute(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	_, err := store.Add(ctx, shirtProduct(), nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, shirtProduct(), nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, mugProduct(), nil)
	require.NoError(t, err)

	require.NoError(t, store.UpdateAttribute(ctx, "p1", "Size", "XL", 5.00))

	items := store.Items()
	assert.Equal(t, SelectedAttribute{Value: "XL", PriceDelta: 5.00}, items[0].Selected["Size"])
	assert.Equal(t, SelectedAttribute{Value: "XL", PriceDelta: 5.00}, items[1].Selected["Size"])
	assert.Empty(t, items[2].Selected)
	assert.Equal(t, items, persistedItems(t, storage))
}

func TestUpdateAttributeUnknownProductIsNoOp(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), zap.NewNop())

	_, err := store.Add(ctx, mugProduct(), nil)
	require.NoError(t, err)
	before := store.Items()

	require.NoError(t, store.UpdateAttribute(ctx, "missing", "Size", "XL", 5.00))

	assert.Equal(t, before, store.Items())
}

func TestUpdateLineAttribute(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), zap.NewNop())

	target, err := store.Add(ctx, shirtProduct(), nil)
	require.NoError(t, err)
	_, err = store.Add(ctx, shirtProduct(), nil)
	require.NoError(t, err)

	require.NoError(t, store.UpdateLineAttribute(ctx, target.LineID, "Color", "Red", 1.50))

	items := store.Items()
	assert.Equal(t, SelectedAttribute{Value: "Red", PriceDelta: 1.50}, items[0].Selected["Color"])
	assert.Empty(t, items[1].Selected)
}

func TestClearEmptiesCartAndStorage(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(ctx, storage, zap.NewNop())

	_, err := store.Add(ctx, mugProduct(), nil)
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))

	assert.Equal(t, 0, store.Len())
	data, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestRehydrateRoundTrip(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		fill func(t *testing.T, s *Store)
	}{
		{name: "empty", fill: func(t *testing.T, s *Store) {}},
		{name: "one item no selection", fill: func(t *testing.T, s *Store) {
			_, err := s.Add(ctx, mugProduct(), nil)
			require.NoError(t, err)
		}},
		{name: "several items with selections", fill: func(t *testing.T, s *Store) {
			_, err := s.Add(ctx, shirtProduct(), map[string]SelectedAttribute{
				"Size":  {Value: "XL", PriceDelta: 5.00},
				"Color": {Value: "Red", PriceDelta: 1.50},
			})
			require.NoError(t, err)
			_, err = s.Add(ctx, shirtProduct(), nil)
			require.NoError(t, err)
			_, err = s.Add(ctx, mugProduct(), nil)
			require.NoError(t, err)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			original := NewStore(ctx, storage, zap.NewNop())
			tc.fill(t, original)

			rehydrated := NewStore(ctx, storage, zap.NewNop())
			assert.Equal(t, original.Items(), rehydrated.Items())
		})
	}
}

func TestRehydrateToleratesCorruptStorage(t *testing.T) {
	ctx := context.Background()

	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, []byte("{not json")))

	store := NewStore(ctx, storage, zap.NewNop())
	assert.Equal(t, 0, store.Len())
}

func TestRehydrateToleratesLoadFailure(t *testing.T) {
	ctx := context.Background()

	store := NewStore(ctx, &failingStorage{loadErr: errors.New("disk gone")}, zap.NewNop())
	assert.Equal(t, 0, store.Len())
}

func TestAddSurfacesPersistFailure(t *testing.T) {
	ctx := context.Background()

	store := NewStore(ctx, &failingStorage{saveErr: errors.New("disk full")}, zap.NewNop())
	_, err := store.Add(ctx, mugProduct(), nil)
	require.Error(t, err)
}

func TestDefaultSelections(t *testing.T) {
	selected := DefaultSelections(shirtProduct())

	assert.Equal(t, map[string]SelectedAttribute{
		"Size":  {Value: "M", PriceDelta: 0},
		"Color": {Value: "Black", PriceDelta: 0},
	}, selected)

	assert.Empty(t, DefaultSelections(mugProduct()))
}

func TestItemsReturnsDeepCopy(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, NewMemoryStorage(), zap.NewNop())

	_, err := store.Add(ctx, shirtProduct(), map[string]SelectedAttribute{
		"Size": {Value: "M", PriceDelta: 0},
	})
	require.NoError(t, err)

	items := store.Items()
	items[0].Selected["Size"] = SelectedAttribute{Value: "XL", PriceDelta: 5.00}
	items[0].Attributes[0].Options[0] = catalog.AttributeOption{Value: "tampered"}

	fresh := store.Items()
	assert.Equal(t, SelectedAttribute{Value: "M", PriceDelta: 0}, fresh[0].Selected["Size"])
	assert.Equal(t, "M", fresh[0].Attributes[0].Options[0].Value)
}

type failingStorage struct {
	loadErr error
	saveErr error
}

func (f *failingStorage) Load(ctx context.Context) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return nil, nil
}

func (f *failingStorage) Save(ctx context.Context, data []byte) error {
	return f.saveErr
}

func (f *failingStorage) Clear(ctx context.Context) error {
	return nil
}
