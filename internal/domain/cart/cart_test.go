package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id string, price string) LineItem {
	return LineItem{
		ProductID: id,
		Name:      "Item " + id,
		UnitPrice: decimal.RequireFromString(price),
		Picture:   "/images/" + id + ".jpg",
		Brand:     "Antique",
	}
}

func TestNew(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New("sess-1", now)

	assert.Equal(t, SchemaVersion, c.SchemaVersion)
	assert.Equal(t, "sess-1", c.SessionID)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.Equal(t, now, c.CreatedAt)
}

func TestAdd_NewLine(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("clock", "320.00"))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, "clock", c.Items[0].ProductID)
}

func TestAdd_RepeatedIncrementsQuantity(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("clock", "320.00"))
	c.Add(testItem("clock", "320.00"))
	c.Add(testItem("clock", "320.00"))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.Count())
}

func TestAdd_RefreshesDisplayFields(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("clock", "320.00"))

	// A repeat add after a catalog price change carries the fresh price.
	updated := testItem("clock", "350.00")
	updated.Name = "Art Deco Clock"
	c.Add(updated)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "Art Deco Clock", c.Items[0].Name)
	assert.True(t, decimal.RequireFromString("350.00").Equal(c.Items[0].UnitPrice))
}

func TestAdd_PreservesInsertionOrder(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))
	c.Add(testItem("b", "2.00"))
	c.Add(testItem("c", "3.00"))
	c.Add(testItem("b", "2.00"))

	require.Len(t, c.Items, 3)
	assert.Equal(t, "a", c.Items[0].ProductID)
	assert.Equal(t, "b", c.Items[1].ProductID)
	assert.Equal(t, "c", c.Items[2].ProductID)
}

func TestRemove(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))
	c.Add(testItem("b", "2.00"))

	c.Remove("a")

	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ProductID)
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))

	c.Remove("ghost")

	assert.Len(t, c.Items, 1)
}

func TestSetQuantity(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))

	c.SetQuantity("a", 7)

	assert.Equal(t, 7, c.Items[0].Quantity)
	assert.Equal(t, 7, c.Count())
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))
	c.Add(testItem("b", "2.00"))

	c.SetQuantity("a", 0)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "b", c.Items[0].ProductID)
}

func TestSetQuantity_NegativeRemovesLine(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))

	c.SetQuantity("a", -3)

	assert.Empty(t, c.Items)
}

func TestSetQuantity_UnknownIsNoop(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))

	c.SetQuantity("ghost", 5)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestCountAndTotal_RecomputedFresh(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "10.50"))
	c.Add(testItem("a", "10.50"))
	c.Add(testItem("b", "5.25"))

	assert.Equal(t, 3, c.Count())
	assert.True(t, decimal.RequireFromString("26.25").Equal(c.Total()), "total %s", c.Total())

	c.SetQuantity("a", 1)
	assert.Equal(t, 2, c.Count())
	assert.True(t, decimal.RequireFromString("15.75").Equal(c.Total()), "total %s", c.Total())
}

func TestClear(t *testing.T) {
	c := New("s", time.Now())
	c.Add(testItem("a", "1.00"))
	c.Add(testItem("b", "2.00"))

	c.Clear()

	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Count())
	assert.True(t, decimal.Zero.Equal(c.Total()))
}
