package store

import "github.com/your-org/cid/internal/models"

func ptr[T any](v T) *T { return &v }

// SeedDemo loads the demo person records shipped with the product.
func (s *RecordStore) SeedDemo() {
	demo := []Fields{
		{
			Name:        ptr("John Smith"),
			Offense:     ptr("Armed Robbery"),
			Severity:    ptr(models.SeverityHigh),
			Status:      ptr(models.StatusWanted),
			PortraitURL: ptr("https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop&crop=face"),
			LastSeen:    ptr("2024-01-15"),
			Age:         ptr("35"),
			Height:      ptr(`6'2"`),
		},
		{
			Name:        ptr("Maria Garcia"),
			Offense:     ptr("Credit Card Fraud"),
			Severity:    ptr(models.SeverityMedium),
			Status:      ptr(models.StatusSuspected),
			PortraitURL: ptr("https://images.unsplash.com/photo-1494790108755-2616b612b786?w=150&h=150&fit=crop&crop=face"),
			LastSeen:    ptr("2024-01-10"),
			Age:         ptr("28"),
			Height:      ptr(`5'6"`),
		},
		{
			Name:        ptr("Robert Johnson"),
			Offense:     ptr("Burglary"),
			Severity:    ptr(models.SeverityHigh),
			Status:      ptr(models.StatusWanted),
			PortraitURL: ptr("https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face"),
			LastSeen:    ptr("2024-01-08"),
			Age:         ptr("42"),
			Height:      ptr(`5'11"`),
		},
	}

	for _, f := range demo {
		s.Add(f)
	}
}
