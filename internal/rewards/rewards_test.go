package rewards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledger map[string]int

func (l ledger) PointsOf(u string) int { return l[u] }
func (l ledger) DeductPoints(_ context.Context, u string, n int) error {
	if _, ok := l[u]; ok {
		l[u] = max(0, l[u]-n)
	}
	return nil
}

func TestCatalogOrder(t *testing.T) {
	names := []string{}
	for _, r := range Catalog() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Tree Planting Certificate", "Reusable Water Bottle", "Compost Bin"}, names)

	c := Catalog()
	c[0].Cost = 1
	r, ok := Lookup("Tree Planting Certificate")
	require.True(t, ok)
	assert.Equal(t, 500, r.Cost)
}

func TestRedeem(t *testing.T) {
	ctx := context.Background()
	l := ledger{"user": 600}

	r, err := Redeem(ctx, l, "user", "Reusable Water Bottle")
	require.NoError(t, err)
	assert.Equal(t, 250, r.Cost)
	assert.Equal(t, 350, l["user"])

	_, err = Redeem(ctx, l, "user", "Compost Bin")
	assert.ErrorIs(t, err, ErrInsufficientPoints)
	assert.Equal(t, 350, l["user"])

	_, err = Redeem(ctx, l, "user", "Yacht")
	assert.ErrorIs(t, err, ErrUnknownReward)
	assert.Equal(t, 350, l["user"])
}

func TestRedeemExactBalance(t *testing.T) {
	l := ledger{"user": 750}
	_, err := Redeem(context.Background(), l, "user", "Compost Bin")
	require.NoError(t, err)
	assert.Equal(t, 0, l["user"])
}

func TestJoin(t *testing.T) {
	c, err := Join("Recycling Champion")
	require.NoError(t, err)
	assert.Equal(t, 150, c.Points)
	assert.Equal(t, "Report recyclables correctly", c.Description)

	_, err = Join("Marathon")
	assert.ErrorIs(t, err, ErrUnknownChallenge)
	assert.Len(t, Challenges(), 2)
}
