package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		first string
		last  string
		want  string
	}{
		{first: "Ada", last: "Lovelace", want: "Ada Lovelace"},
		{first: "Ada", last: "", want: "Ada"},
		{first: "", last: "Lovelace", want: "Lovelace"},
		{first: "", last: "", want: ""},
		{first: "  Ada  ", last: "  Lovelace  ", want: "Ada Lovelace"},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.first, tt.last); got != tt.want {
			t.Fatalf("DisplayName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestUserValidate(t *testing.T) {
	valid := &User{ID: "user_1", Email: "ada@example.com", Name: "Ada Lovelace"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, (&User{Email: "ada@example.com"}).Validate())
	assert.Error(t, (&User{ID: "user_1"}).Validate())
	assert.Error(t, (&User{ID: "user_1", Email: "not-an-email"}).Validate())
}
