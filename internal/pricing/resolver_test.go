package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRound2HalfUp(t *testing.T) {
	cases := map[string]string{
		"1.005":   "1.01",
		"1.004":   "1",
		"2.5":     "2.5",
		"165":     "165",
		"-1.005":  "-1",
		"33.3333": "33.33",
	}
	for in, want := range cases {
		assert.True(t, Round2(d(in)).Equal(d(want)), "Round2(%s) = %s, want %s", in, Round2(d(in)), want)
	}
}

func TestMarginFromPrices(t *testing.T) {
	m, ok := MarginFromPrices(d("100"), d("150"))
	require.True(t, ok)
	assert.Equal(t, "50.00", m.StringFixed(2))

	m, ok = MarginFromPrices(d("100"), d("80"))
	require.True(t, ok)
	assert.Equal(t, "-20.00", m.StringFixed(2))
}

func TestMarginFromPricesZeroCostIsUndefined(t *testing.T) {
	for _, cost := range []string{"0", "-5"} {
		_, ok := MarginFromPrices(d(cost), d("120"))
		assert.False(t, ok, "cost %s", cost)
	}
}

func TestSellingFromCostAndMargin(t *testing.T) {
	s, ok := SellingFromCostAndMargin(d("100"), d("50"))
	require.True(t, ok)
	assert.Equal(t, "150.00", s.StringFixed(2))

	_, ok = SellingFromCostAndMargin(d("0"), d("50"))
	assert.False(t, ok)
	_, ok = SellingFromCostAndMargin(d("100"), d("-1"))
	assert.False(t, ok)
}

func TestMarginSellingRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"100", "150"},
		{"3.33", "7.77"},
		{"0.01", "1000"},
		{"19.99", "20"},
		{"250", "250"},
		{"12.5", "99.95"},
	}
	tolerance := d("0.01")
	for _, p := range pairs {
		cost, selling := d(p[0]), d(p[1])
		m, ok := MarginFromPrices(cost, selling)
		require.True(t, ok)
		got, ok := SellingFromCostAndMargin(cost, m)
		require.True(t, ok)
		assert.True(t, got.Sub(selling).Abs().LessThanOrEqual(tolerance), "cost=%s selling=%s got=%s", cost, selling, got)
	}
}

func TestValidateSave(t *testing.T) {
	_, err := ValidateSave(d("0"), d("10"))
	assert.ErrorIs(t, err, ErrCostPriceRequired)

	_, err = ValidateSave(d("10"), d("0"))
	assert.ErrorIs(t, err, ErrSellingPriceRequired)

	adv, err := ValidateSave(d("10"), d("8"))
	require.NoError(t, err)
	assert.Equal(t, AdvisoryBelowCost, adv)

	adv, err = ValidateSave(d("10"), d("12"))
	require.NoError(t, err)
	assert.Equal(t, AdvisoryNone, adv)
}

func TestTriangleEdit(t *testing.T) {
	tri := Triangle{Cost: d("100"), Selling: d("150"), Margin: d("50")}

	got, err := tri.Edit(FieldCost, d("120"))
	require.NoError(t, err)
	assert.Equal(t, "180.00", got.Selling.StringFixed(2))
	assert.Equal(t, "50.00", got.Margin.StringFixed(2))

	got, err = tri.Edit(FieldMargin, d("25"))
	require.NoError(t, err)
	assert.Equal(t, "125.00", got.Selling.StringFixed(2))

	got, err = tri.Edit(FieldSelling, d("90"))
	require.NoError(t, err)
	assert.Equal(t, "-10.00", got.Margin.StringFixed(2))
	assert.Equal(t, AdvisoryBelowCost, got.Advisory())
}

func TestTriangleEditLeavesUndefinedDerivations(t *testing.T) {
	tri := Triangle{Cost: d("0"), Selling: d("40"), Margin: d("30")}

	got, err := tri.Edit(FieldSelling, d("50"))
	require.NoError(t, err)
	assert.True(t, got.Margin.Equal(d("30")))

	tri = Triangle{Cost: d("100"), Selling: d("90"), Margin: d("-10")}
	got, err = tri.Edit(FieldCost, d("80"))
	require.NoError(t, err)
	assert.True(t, got.Selling.Equal(d("90")), "negative margin must not derive a selling price")

	_, err = tri.Edit(Field("quantity"), d("1"))
	assert.ErrorIs(t, err, ErrUnknownField)
}
