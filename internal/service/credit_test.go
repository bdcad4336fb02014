package service

import "testing"

func TestPendingDelta(t *testing.T) {
	tests := []struct {
		name     string
		previous int
		next     int
		want     int
	}{
		{"opening slots debits", 0, 3, -3},
		{"closing slots refunds", 3, 1, 2},
		{"no change", 2, 2, 0},
		{"closing everything refunds all", 5, 0, 5},
		{"counter driven negative", 0, -2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PendingDelta(tt.previous, tt.next); got != tt.want {
				t.Errorf("PendingDelta(%d, %d) = %d, want %d", tt.previous, tt.next, got, tt.want)
			}
		})
	}
}
