package orders

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdersForIsDeterministic(t *testing.T) {
	d := NewMockDirectory()
	ctx := context.Background()

	a, err := d.OrdersFor(ctx, "9876543210")
	require.NoError(t, err)
	b, err := d.OrdersFor(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, a, b, "same customer must always see the same orders")
}

func TestOrdersForShape(t *testing.T) {
	d := NewMockDirectory()
	tracking := regexp.MustCompile(`^(SP|RP)\d{7}IN$`)

	for _, id := range []string{"1234509876", "5551234567", "0001112223"} {
		got, err := d.OrdersFor(context.Background(), id)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(got), 2)
		require.LessOrEqual(t, len(got), 4)
		for _, o := range got {
			assert.Regexp(t, tracking, o.TrackingID)
			assert.NotEqual(t, o.Origin, o.Destination)
			assert.Contains(t, []string{"In Transit", "Delivered", "Out for Delivery"}, o.Status)
		}
	}
}

func TestOrdersForDistinctCustomersDiffer(t *testing.T) {
	d := NewMockDirectory()
	a, _ := d.OrdersFor(context.Background(), "1234509876")
	b, _ := d.OrdersFor(context.Background(), "9876501234")
	assert.NotEqual(t, a, b)
}

func TestOrdersForOfficialIsEmpty(t *testing.T) {
	d := NewMockDirectory()
	got, err := d.OrdersFor(context.Background(), "admin")
	require.NoError(t, err)
	assert.Empty(t, got)
}
