package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestMeltValue(t *testing.T) {
	cases := []struct {
		weight float64
		purity int
		spot   string
		want   string
	}{
		{10, 14, "65.00", "379.17"},
		{5, 14, "65.00", "189.58"},
		{1, 24, "65.00", "65.00"},
		{28.3495, 10, "65.00", "767.80"},
		{3.2, 18, "72.15", "173.16"},
	}
	for _, c := range cases {
		got := MeltValue(c.weight, c.purity, dec(c.spot))
		if got.StringFixed(2) != c.want {
			t.Fatalf("MeltValue(%v, %d, %s) = %s, want %s", c.weight, c.purity, c.spot, got.StringFixed(2), c.want)
		}
	}
}

func TestProfit(t *testing.T) {
	cases := []struct {
		melt, price, want string
	}{
		{"189.58", "50.00", "139.58"},
		{"189.58", "200.00", "-10.42"},
		{"65.00", "65.00", "0.00"},
	}
	for _, c := range cases {
		got := Profit(dec(c.melt), dec(c.price))
		if got.StringFixed(2) != c.want {
			t.Fatalf("Profit(%s, %s) = %s, want %s", c.melt, c.price, got.StringFixed(2), c.want)
		}
	}
}

func TestMeltValue_Deterministic(t *testing.T) {
	a := MeltValue(7.77, 14, dec("68.23"))
	b := MeltValue(7.77, 14, dec("68.23"))
	if !a.Equal(b) {
		t.Fatalf("melt value is not deterministic: %s vs %s", a, b)
	}
}
