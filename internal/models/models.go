package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

const (
	OrderStatusPlaced    = "PLACED"
	OrderStatusFulfilled = "FULFILLED"
	OrderStatusCancelled = "CANCELLED"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"   json:"username"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	Role         string    `gorm:"not null;default:STAFF" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Sweet struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Price       float64   `gorm:"not null"             json:"price"`
	Stock       int       `gorm:"not null;default:0"   json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Sweet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Order struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey"        json:"id"`
	CustomerName string      `gorm:"not null"                    json:"customerName"`
	TotalPrice   float64     `gorm:"not null"                    json:"totalPrice"`
	Status       string      `gorm:"not null;default:PLACED"     json:"status"`
	Items        []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem snapshots the sweet's name and line price at purchase time, so
// later catalog edits or deletes never change what a historical order shows.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	SweetID   uuid.UUID `gorm:"type:uuid;not null"       json:"sweetId"`
	SweetName string    `gorm:"not null"                 json:"sweetName"`
	Quantity  int       `gorm:"not null"                 json:"quantity"`
	Price     float64   `gorm:"not null"                 json:"price"`
	Position  int       `gorm:"not null"                 json:"-"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
