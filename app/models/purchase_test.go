package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionPurchaseStatus(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{from: PurchaseStatusPending, to: PurchaseStatusCompleted, want: true},
		{from: PurchaseStatusPending, to: PurchaseStatusFailed, want: true},
		{from: PurchaseStatusCompleted, to: PurchaseStatusFailed, want: false},
		{from: PurchaseStatusCompleted, to: PurchaseStatusPending, want: false},
		{from: PurchaseStatusFailed, to: PurchaseStatusCompleted, want: false},
		{from: PurchaseStatusFailed, to: PurchaseStatusPending, want: false},
		{from: PurchaseStatusPending, to: PurchaseStatusPending, want: false},
		{from: "garbage", to: PurchaseStatusCompleted, want: false},
	}

	for _, tt := range tests {
		if got := CanTransitionPurchaseStatus(tt.from, tt.to); got != tt.want {
			t.Fatalf("CanTransitionPurchaseStatus(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestPurchaseIsTerminal(t *testing.T) {
	assert.False(t, (&Purchase{Status: PurchaseStatusPending}).IsTerminal())
	assert.True(t, (&Purchase{Status: PurchaseStatusCompleted}).IsTerminal())
	assert.True(t, (&Purchase{Status: PurchaseStatusFailed}).IsTerminal())
}
