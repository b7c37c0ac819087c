package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// User mirrors an identity-provider account. The primary key is issued by the
// provider and is never generated locally; records are created, updated and
// deleted exclusively by the identity webhook handler.
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id" validate:"required,max=64"`
	Email     string    `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,max=200"`
	Name      string    `gorm:"type:varchar(150)" json:"name" validate:"max=150"`
	ImageURL  string    `gorm:"type:varchar(255)" json:"image_url" validate:"max=255"`
	Resume    string    `gorm:"type:varchar(255);default:''" json:"resume"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// DisplayName builds the stored name from the provider's first/last name
// fields. Either part may be empty.
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}
