package adapters

import (
	"reflect"
	"testing"

	"dealscout/internal/core/taxonomy"
	"dealscout/internal/services/sourcing/domain"
)

func fp(v float64) *float64 { return &v }

func footwearIntent() domain.SearchIntent {
	return domain.SearchIntent{
		Query:           "running shoes under 80",
		Category:        "footwear",
		CategoryPath:    []string{"footwear"},
		TaxonomyVersion: taxonomy.Version,
		PriceMax:        fp(80),
		Currency:        "USD",
		Keywords:        []string{"running", "shoes"},
		Features:        map[string]string{"color": "red"},
	}
}

func TestShopStream_PushesPriceFilter(t *testing.T) {
	t.Parallel()

	q := ShopStream{}.BuildQuery(footwearIntent())
	if !q.AppliedPriceFilter {
		t.Fatalf("shopstream should apply the max price server side")
	}
	if q.Filters["price_max"] != "80" {
		t.Fatalf("price_max filter = %q", q.Filters["price_max"])
	}
	if q.Filters["category"] != "apparel/shoes" {
		t.Fatalf("category filter = %q", q.Filters["category"])
	}
	if q.Query != "running shoes red" {
		t.Fatalf("query = %q", q.Query)
	}
}

func TestBargainBay_DefersPriceFilter(t *testing.T) {
	t.Parallel()

	q := BargainBay{}.BuildQuery(footwearIntent())
	if q.AppliedPriceFilter {
		t.Fatalf("bargainbay cannot filter price server side; flag must stay false")
	}
	if _, ok := q.Filters["price_max"]; ok {
		t.Fatalf("bargainbay must not carry a price filter")
	}
	if q.Filters["section"] != "footwear" {
		t.Fatalf("section filter = %q", q.Filters["section"])
	}
}

func TestMercatus_MaxOnly(t *testing.T) {
	t.Parallel()

	in := footwearIntent()
	in.PriceMin = fp(20)
	q := Mercatus{}.BuildQuery(in)
	if !q.AppliedPriceFilter {
		t.Fatalf("mercatus honors max price server side")
	}
	if q.Filters["max_price"] != "80" {
		t.Fatalf("max_price filter = %q", q.Filters["max_price"])
	}
	if _, ok := q.Filters["min_price"]; ok {
		t.Fatalf("mercatus has no min price parameter")
	}
}

func TestBuildQuery_Deterministic(t *testing.T) {
	t.Parallel()

	in := footwearIntent()
	in.Features = map[string]string{"color": "red", "size": "10", "brand": "aero"}
	a := ShopStream{}
	first := a.BuildQuery(in)
	for i := 0; i < 20; i++ {
		if got := a.BuildQuery(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("BuildQuery not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestRegistry_OrderAndPriority(t *testing.T) {
	t.Parallel()

	r := Default()
	ids := r.IDs()
	want := []string{"shopstream", "bargainbay", "mercatus"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("IDs = %v, want %v", ids, want)
	}

	if r.Priority("shopstream") <= r.Priority("mercatus") {
		t.Fatalf("earlier providers should carry higher priority")
	}
	if r.Priority("nosuch") != 0 {
		t.Fatalf("unknown provider priority should be 0")
	}

	qs := r.BuildAll(footwearIntent())
	if len(qs) != 3 {
		t.Fatalf("BuildAll returned %d queries", len(qs))
	}
	for i, q := range qs {
		if q.ProviderID != want[i] {
			t.Fatalf("BuildAll order: got %q at %d", q.ProviderID, i)
		}
	}
}
