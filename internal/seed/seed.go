// Package seed loads the demo data set the storefront ships with. It is
// only wired in when SEED_DEMO_ORDERS is enabled; nothing survives a
// restart with the in-memory store.
package seed

import (
	"fmt"
	"time"

	"syndicate_armory/internal/models"
	"syndicate_armory/internal/repository"
)

func Load(repo repository.OrderRepository) error {
	for _, order := range demoOrders() {
		if err := repo.Create(order); err != nil {
			return fmt.Errorf("failed to seed order %s: %w", order.ID, err)
		}
	}
	return nil
}

func demoOrders() []*models.Order {
	return []*models.Order{
		{
			ID:         "ord_001",
			TrackingID: "SYN7X2",
			Status:     models.StatusCompleted,
			Items: []models.OrderItem{
				{Name: "Carbine Rifle MK2", Quantity: 2, Price: 45000},
				{Name: "5.56mm Box (x60)", Quantity: 5, Price: 2400},
			},
			TotalPrice:      102000,
			ImportTotal:     int64Ptr(78000),
			CreatedAt:       ts("2026-01-28T14:30:00Z"),
			EstimatedPickup: tsPtr("2026-01-28T16:00:00Z"),
			BuyerName:       "Ghost",
			Phone:           "555-0142",
			GangName:        "The Syndicate",
			IsPaid:          true,
			InTreasury:      true,
			History: []models.HistoryEntry{
				statusEntry("pending_review", "accepted", "Razor", "2026-01-28T14:35:00Z"),
				statusEntry("accepted", "in_progress", "Razor", "2026-01-28T14:45:00Z"),
				statusEntry("in_progress", "ready_for_pickup", "Razor", "2026-01-28T15:00:00Z"),
				paymentEntry(models.PaymentUnpaid, models.PaymentPaid, "Razor", "2026-01-28T15:05:00Z"),
				statusEntry("ready_for_pickup", "completed", "Razor", "2026-01-28T15:30:00Z"),
			},
		},
		{
			ID:         "ord_002",
			TrackingID: "K9M3PL",
			Status:     models.StatusInProgress,
			Items: []models.OrderItem{
				{Name: "Combat MG", Quantity: 1, Price: 85000},
				{Name: "Holographic Sight", Quantity: 1, Price: 4500},
				{Name: "Extended Mag", Quantity: 2, Price: 2500},
			},
			TotalPrice:      94500,
			ImportTotal:     int64Ptr(72000),
			CreatedAt:       ts("2026-01-28T12:15:00Z"),
			EstimatedPickup: tsPtr("2026-01-28T18:00:00Z"),
			BuyerName:       "Viper",
			Phone:           "555-0198",
			GangName:        "Iron Serpents",
			History: []models.HistoryEntry{
				statusEntry("pending_review", "accepted", "Admin", "2026-01-28T12:20:00Z"),
				statusEntry("accepted", "in_progress", "Admin", "2026-01-28T12:45:00Z"),
			},
		},
		{
			ID:         "ord_003",
			TrackingID: "QW8N4R",
			Status:     models.StatusPendingReview,
			Items: []models.OrderItem{
				{Name: "AP Pistol", Quantity: 3, Price: 18000},
				{Name: "9mm Box (x50)", Quantity: 10, Price: 1200},
			},
			TotalPrice: 66000,
			CreatedAt:  ts("2026-01-28T10:00:00Z"),
			BuyerName:  "Shadow",
			Phone:      "555-0167",
			GangName:   "Night Howlers",
			History:    []models.HistoryEntry{},
		},
		{
			ID:         "ord_004",
			TrackingID: "BX2Y9T",
			Status:     models.StatusCancelled,
			Items: []models.OrderItem{
				{Name: "Heavy Sniper MK2", Quantity: 1, Price: 125000},
			},
			TotalPrice: 125000,
			CreatedAt:  ts("2026-01-27T18:30:00Z"),
			BuyerName:  "Spectre",
			Phone:      "555-0234",
			GangName:   "The Syndicate",
			History: []models.HistoryEntry{
				statusEntry("pending_review", "cancelled", "Spectre", "2026-01-27T19:00:00Z"),
			},
		},
		{
			ID:         "ord_005",
			TrackingID: "LM5C7Z",
			Status:     models.StatusReadyForPickup,
			Items: []models.OrderItem{
				{Name: "Suppressor (Rifle)", Quantity: 2, Price: 12000},
				{Name: "Grip (Tactical)", Quantity: 2, Price: 1800},
				{Name: "Medical Kit", Quantity: 5, Price: 8000},
			},
			TotalPrice:      67600,
			ImportTotal:     int64Ptr(52000),
			CreatedAt:       ts("2026-01-28T08:45:00Z"),
			EstimatedPickup: tsPtr("2026-01-28T20:00:00Z"),
			BuyerName:       "Phoenix",
			Phone:           "555-0189",
			GangName:        "The Syndicate",
			IsPaid:          true,
			History: []models.HistoryEntry{
				statusEntry("pending_review", "accepted", "Razor", "2026-01-28T09:00:00Z"),
				statusEntry("accepted", "in_progress", "Razor", "2026-01-28T09:30:00Z"),
				paymentEntry(models.PaymentUnpaid, models.PaymentPaid, "Phoenix", "2026-01-28T10:00:00Z"),
				statusEntry("in_progress", "ready_for_pickup", "Razor", "2026-01-28T11:00:00Z"),
			},
		},
	}
}

func statusEntry(from, to, by, at string) models.HistoryEntry {
	return models.HistoryEntry{Action: models.ActionStatus, From: from, To: to, By: by, At: ts(at)}
}

func paymentEntry(from, to, by, at string) models.HistoryEntry {
	return models.HistoryEntry{Action: models.ActionPayment, From: from, To: to, By: by, At: ts(at)}
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(fmt.Sprintf("seed: bad timestamp %q: %v", value, err))
	}
	return t
}

func tsPtr(value string) *time.Time {
	t := ts(value)
	return &t
}

func int64Ptr(v int64) *int64 { return &v }
