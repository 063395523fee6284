package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents a product in the store.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	InStock     bool      `json:"inStock" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput is the body accepted by create and update requests.
// Pointer fields distinguish an omitted value from its zero value.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	InStock     *bool    `json:"inStock"`
}

// ProductChanges is the set of fields an update writes. Nil fields are left untouched.
type ProductChanges struct {
	Name        string
	Price       float64
	Description *string
	InStock     *bool
}

// NewID returns a fresh product identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ParseID checks that id is a well-formed product identifier.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
