package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pct(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestBulkValidate(t *testing.T) {
	assert.ErrorIs(t, BulkUpdate{}.Validate(), ErrNoUpdateSelected)

	err := BulkUpdate{CostPricePercentage: pct("0"), SellingPricePercentage: pct("10")}.Validate()
	var pe *PercentageError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, map[string]string{"cost_price_percentage": "invalid percentage"}, pe.Fields)

	assert.NoError(t, BulkUpdate{ProfitMarginPercentage: pct("-3")}.Validate())
}

func TestBulkSellingOnlyRecomputesMargin(t *testing.T) {
	c := BulkUpdate{SellingPricePercentage: pct("10")}.Apply(Prices{Cost: d("100"), Selling: d("150"), Margin: d("50")})

	assert.Nil(t, c.Cost)
	require.NotNil(t, c.Selling)
	require.NotNil(t, c.Margin)
	assert.Equal(t, "165.00", c.Selling.StringFixed(2))
	assert.Equal(t, "65.00", c.Margin.StringFixed(2))
}

func TestBulkMarginOnlyRecomputesSelling(t *testing.T) {
	c := BulkUpdate{ProfitMarginPercentage: pct("5")}.Apply(Prices{Cost: d("100"), Selling: d("150"), Margin: d("50")})

	assert.Nil(t, c.Cost)
	require.NotNil(t, c.Margin)
	require.NotNil(t, c.Selling)
	assert.Equal(t, "55.00", c.Margin.StringFixed(2))
	assert.Equal(t, "155.00", c.Selling.StringFixed(2))
}

func TestBulkCostOnlyKeepsMargin(t *testing.T) {
	c := BulkUpdate{CostPricePercentage: pct("20")}.Apply(Prices{Cost: d("100"), Selling: d("150"), Margin: d("50")})

	require.NotNil(t, c.Cost)
	require.NotNil(t, c.Selling)
	assert.Equal(t, "120.00", c.Cost.StringFixed(2))
	assert.Equal(t, "180.00", c.Selling.StringFixed(2))
	assert.Nil(t, c.Margin, "margin stays 50 after re-derivation")
}

func TestBulkCostOnlyWithZeroMarginLeavesSelling(t *testing.T) {
	c := BulkUpdate{CostPricePercentage: pct("10")}.Apply(Prices{Cost: d("100"), Selling: d("100"), Margin: d("0")})

	require.NotNil(t, c.Cost)
	assert.Equal(t, "110.00", c.Cost.StringFixed(2))
	assert.Nil(t, c.Selling)
	assert.Nil(t, c.Margin)
}

func TestBulkSellingTakesPrecedenceOverMargin(t *testing.T) {
	c := BulkUpdate{
		ProfitMarginPercentage: pct("10"),
		SellingPricePercentage: pct("-10"),
	}.Apply(Prices{Cost: d("100"), Selling: d("150"), Margin: d("50")})

	require.NotNil(t, c.Selling)
	require.NotNil(t, c.Margin)
	assert.Equal(t, "135.00", c.Selling.StringFixed(2))
	assert.Equal(t, "60.00", c.Margin.StringFixed(2), "explicit margin is not re-derived")
}

func TestBulkMarginWithoutCostLeavesSelling(t *testing.T) {
	c := BulkUpdate{ProfitMarginPercentage: pct("5")}.Apply(Prices{Cost: d("0"), Selling: d("20"), Margin: d("10")})

	require.NotNil(t, c.Margin)
	assert.Equal(t, "15.00", c.Margin.StringFixed(2))
	assert.Nil(t, c.Selling)
}

func TestBulkAllThree(t *testing.T) {
	c := BulkUpdate{
		CostPricePercentage:    pct("10"),
		SellingPricePercentage: pct("20"),
		ProfitMarginPercentage: pct("1"),
	}.Apply(Prices{Cost: d("100"), Selling: d("150"), Margin: d("50")})

	merged := c.Merge(Prices{Cost: d("100"), Selling: d("150"), Margin: d("50")})
	assert.Equal(t, "110.00", merged.Cost.StringFixed(2))
	assert.Equal(t, "180.00", merged.Selling.StringFixed(2))
	assert.Equal(t, "51.00", merged.Margin.StringFixed(2))
}

func TestChangeEmpty(t *testing.T) {
	assert.True(t, Change{}.Empty())
	c := BulkUpdate{SellingPricePercentage: pct("10")}.Apply(Prices{Cost: d("0"), Selling: d("0"), Margin: d("0")})
	assert.True(t, c.Empty())
}
