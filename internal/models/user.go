package models

import "gorm.io/gorm"

// User represents a shopper (or merchant) of the store.
type User struct {
	ID         string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string        `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string        `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string        `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"` // Never serialized
	Addresses  []UserAddress `json:"addresses" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Cart       []CartItem    `json:"cart" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	gorm.Model               // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// UserAddress is one saved entry of a user's address book. Position preserves
// insertion order; checkout selects an address by that index.
type UserAddress struct {
	ID       uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID   string  `json:"-" gorm:"index;type:varchar(36)"`
	Position int     `json:"position"`
	Address  Address `json:"address" gorm:"embedded"`
}

// CartItem is one product/quantity entry in a user's cart.
type CartItem struct {
	ID        uint     `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    string   `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string   `json:"product_id" gorm:"type:varchar(36)"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int      `json:"quantity" gorm:"default:1" validate:"gte=1"`
}
