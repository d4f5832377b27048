package score

import "testing"

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestFitsHardBounds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		price    *float64
		min, max *float64
		dropNull bool
		want     bool
	}{
		{name: "no bounds", price: fp(10), want: true},
		{name: "within", price: fp(50), min: fp(10), max: fp(80), want: true},
		{name: "at max", price: fp(80), max: fp(80), want: true},
		{name: "over max", price: fp(81), max: fp(80), want: false},
		{name: "under min", price: fp(5), min: fp(10), want: false},
		{name: "zero price under max", price: fp(0), max: fp(80), want: true},
		{name: "null price no max", price: nil, want: true},
		{name: "null price hard max drop", price: nil, max: fp(80), dropNull: true, want: false},
		{name: "null price hard max keep", price: nil, max: fp(80), dropNull: false, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FitsHardBounds(tc.price, tc.min, tc.max, tc.dropNull)
			if got != tc.want {
				t.Fatalf("FitsHardBounds = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPriceFit_OverMaxPenalizedHarder(t *testing.T) {
	t.Parallel()

	q := Query{PriceMin: fp(100), PriceMax: fp(200)}

	// 20% over max vs 20% under min, same relative distance
	over := Item{Title: "x", Price: fp(240)}
	under := Item{Title: "x", Price: fp(80)}

	w := Weights{PriceFit: 1}
	overScore, _ := Compute(over, q, w)
	underScore, _ := Compute(under, q, w)

	if overScore >= underScore {
		t.Fatalf("over-max fit %v should be below under-min fit %v", overScore, underScore)
	}

	inside := Item{Title: "x", Price: fp(150)}
	insideScore, _ := Compute(inside, q, w)
	if insideScore != 1.0 {
		t.Fatalf("inside bounds fit = %v, want 1.0", insideScore)
	}
}

func TestCompute_RelevanceAndQuality(t *testing.T) {
	t.Parallel()

	q := Query{Keywords: []string{"running", "shoes"}}
	w := DefaultWeights()

	hit := Item{Title: "Aero Running Shoes", Price: fp(50), Rating: fp(4.8), ReviewCount: ip(2000)}
	miss := Item{Title: "Cast Iron Pan", Price: fp(50), Rating: fp(4.8), ReviewCount: ip(2000)}

	hs, hb := Compute(hit, q, w)
	ms, _ := Compute(miss, q, w)
	if hs <= ms {
		t.Fatalf("keyword hit %v should outrank miss %v", hs, ms)
	}
	if hb.Relevance != 1.0 {
		t.Fatalf("full keyword match relevance = %v", hb.Relevance)
	}

	// more reviews means more quality confidence at equal rating
	few := Item{Title: "x", Rating: fp(4.5), ReviewCount: ip(2)}
	many := Item{Title: "x", Rating: fp(4.5), ReviewCount: ip(5000)}
	_, fb := Compute(few, Query{}, w)
	_, mb := Compute(many, Query{}, w)
	if mb.Quality <= fb.Quality {
		t.Fatalf("review volume should raise quality: few=%v many=%v", fb.Quality, mb.Quality)
	}
}

func TestCompute_UnknownsAreNeutral(t *testing.T) {
	t.Parallel()

	it := Item{Title: "thing"}
	total, b := Compute(it, Query{}, DefaultWeights())
	if b.PriceFit != 0.5 {
		t.Fatalf("unknown price fit = %v, want 0.5", b.PriceFit)
	}
	if b.Quality != 0 {
		t.Fatalf("missing rating quality = %v, want 0", b.Quality)
	}
	if b.Relevance != 0.5 {
		t.Fatalf("empty query relevance = %v, want 0.5", b.Relevance)
	}
	if total <= 0 {
		t.Fatalf("score should be positive: %v", total)
	}
}
