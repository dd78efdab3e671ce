// Package orders resolves the tracking entries shown on a citizen's
// dashboard. The real directory is an upstream tracking system; the mock
// derives stable per-customer data from a deterministic hash so the same
// citizen always sees the same orders.
package orders

import (
	"context"
	"fmt"

	"github.com/edakseva/grievance-server/internal/model"
)

// Directory looks up the orders belonging to a customer.
type Directory interface {
	OrdersFor(ctx context.Context, customerID string) ([]model.PostOrder, error)
}

// Postal circles and hubs used as origin/destination pools.
var cities = []string{
	"Mumbai GPO", "Delhi Head PO", "Bangalore RMS", "Chennai GPO", "Kolkata RMS",
	"Hyderabad GPO", "Ahmedabad RMS", "Pune City PO", "Jaipur Head PO", "Lucknow RMS",
	"Patna GPO", "Bhopal Head PO", "Chandigarh RMS", "Guwahati GPO", "Thiruvananthapuram RMS",
	"Srinagar Head PO", "Ranchi GPO", "Bhubaneswar RMS", "Raipur Head PO", "Dehradun GPO",
	"Shimla RMS", "Amritsar Head PO", "Madurai GPO", "Kochi RMS", "Visakhapatnam GPO",
}

var statuses = []string{"In Transit", "Delivered", "Out for Delivery", "In Transit"}

// MockDirectory implements Directory with hash-derived data.
type MockDirectory struct{}

func NewMockDirectory() *MockDirectory { return &MockDirectory{} }

// OrdersFor returns 2 to 4 stable orders for the customer. Officials have no
// personal orders.
func (d *MockDirectory) OrdersFor(_ context.Context, customerID string) ([]model.PostOrder, error) {
	if customerID == "" || customerID == "admin" {
		return nil, nil
	}

	baseHash := hashString(customerID)
	orderCount := int(baseHash%3) + 2

	out := make([]model.PostOrder, 0, orderCount)
	for i := 0; i < orderCount; i++ {
		itemSeed := baseHash + uint32(i)*1337
		originIdx := int(itemSeed) % len(cities)
		destIdx := int(itemSeed+7) % len(cities)
		if destIdx == originIdx {
			destIdx = int(itemSeed+8) % len(cities)
		}

		day := int(itemSeed%28) + 1
		trackingPrefix := "RP"
		if itemSeed%2 == 0 {
			trackingPrefix = "SP"
		}
		trackingNum := int(itemSeed%9000000) + 1000000

		out = append(out, model.PostOrder{
			ID:                fmt.Sprintf("ORD-%d", itemSeed%10000),
			TrackingID:        fmt.Sprintf("%s%dIN", trackingPrefix, trackingNum),
			Origin:            cities[originIdx],
			Destination:       cities[destIdx],
			Status:            statuses[int(itemSeed)%len(statuses)],
			EstimatedDelivery: fmt.Sprintf("%d Oct 2023", day),
		})
	}
	return out, nil
}

// hashString folds a string into a small stable integer for pool selection.
func hashString(s string) uint32 {
	var hash int32
	for _, r := range s {
		hash = (hash << 5) - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return uint32(hash)
}
