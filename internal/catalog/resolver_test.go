package catalog

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"offerhub/internal/template"
)

type fakeFetcher struct {
	products map[string]*template.Product
}

func (f *fakeFetcher) Fetch(productID string) (*template.Product, error) {
	if p, ok := f.products[productID]; ok {
		return p, nil
	}
	return nil, errors.New("no such product")
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func TestResolveAttachesSnapshots(t *testing.T) {
	fetcher := &fakeFetcher{products: map[string]*template.Product{
		"prod_1": {ID: "prod_1", Name: "Widget", LowestPrice: 2999},
	}}
	r := NewResolver(fetcher, testLogger())

	override := int64(4999)
	slots := r.Resolve([]SlotConfig{
		{ProductID: "prod_1", DisplayOrder: 1, TierLabel: "Basic", Featured: true, RegularPriceOverride: &override},
	})

	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	slot := slots[0]
	if slot.Product == nil || slot.Product.ID != "prod_1" {
		t.Error("snapshot not attached")
	}
	if slot.TierLabel != "Basic" || !slot.Featured || slot.DisplayOrder != 1 {
		t.Error("slot config fields not carried over")
	}
	if slot.RegularPriceOverride == nil || *slot.RegularPriceOverride != 4999 {
		t.Error("regular price override not carried over")
	}
}

func TestResolveFetchFailureLeavesSlotUnresolved(t *testing.T) {
	fetcher := &fakeFetcher{products: map[string]*template.Product{
		"prod_ok": {ID: "prod_ok", Name: "Widget"},
	}}
	r := NewResolver(fetcher, testLogger())

	slots := r.Resolve([]SlotConfig{
		{ProductID: "prod_ok", DisplayOrder: 1},
		{ProductID: "prod_missing", DisplayOrder: 2},
	})

	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if slots[0].Product == nil {
		t.Error("resolvable slot should carry its snapshot")
	}
	if slots[1].Product != nil {
		t.Error("unresolvable slot should stay nil, not drop or fail")
	}
}

func TestResolveEmptyProductID(t *testing.T) {
	r := NewResolver(&fakeFetcher{}, testLogger())

	slots := r.Resolve([]SlotConfig{{DisplayOrder: 1}})
	if len(slots) != 1 || slots[0].Product != nil {
		t.Error("slot without a product reference should resolve to an empty slot")
	}
}
