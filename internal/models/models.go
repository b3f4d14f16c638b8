package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"       json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash *string   `json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	Verified     bool      `gorm:"default:false"            json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// OneTimeCode keys on email, so the table can never hold more than one
// live code per address.
type OneTimeCode struct {
	Email     string    `gorm:"primaryKey"    json:"email"`
	Code      string    `gorm:"not null"      json:"-"`
	ExpiresAt time.Time `gorm:"not null"      json:"expiresAt"`
	Attempts  int       `gorm:"default:0"     json:"attempts"`
	CreatedAt time.Time `json:"createdAt"`
}

func (OneTimeCode) TableName() string { return "otp_codes" }

type EmailToken struct {
	Token     string     `gorm:"primaryKey"     json:"token"`
	Email     string     `gorm:"index;not null" json:"email"`
	Purpose   string     `gorm:"not null"       json:"purpose"`
	ExpiresAt time.Time  `gorm:"not null"       json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Product struct {
	ID          string    `gorm:"primaryKey;size:36"    json:"id"`
	SKU         string    `gorm:"uniqueIndex;not null"  json:"sku"`
	Name        string    `gorm:"not null"              json:"name"`
	Description string    `json:"description"`
	Price       float64   `gorm:"not null"              json:"price"`
	Category    string    `gorm:"index;not null"        json:"category"`
	ImageURLs   ImageList `gorm:"type:text"             json:"imageUrls"`
	InStock     bool      `gorm:"default:true"          json:"inStock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ImageList stores an ordered set of image URLs as a JSON array in a text
// column. The first entry is the cover image.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ImageList) Scan(v any) error {
	if v == nil {
		*l = nil
		return nil
	}
	switch data := v.(type) {
	case string:
		return json.Unmarshal([]byte(data), l)
	case []byte:
		return json.Unmarshal(data, l)
	default:
		return fmt.Errorf("cannot scan %T into ImageList", v)
	}
}

const (
	OrderStatusNew       = "new"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID            string      `gorm:"primaryKey;size:36" json:"id"`
	UserID        string      `gorm:"index;not null"     json:"userId"`
	Status        string      `gorm:"not null"           json:"status"`
	Total         float64     `gorm:"not null"           json:"total"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   string  `gorm:"index;not null" json:"orderId"`
	ProductID string  `gorm:"not null"       json:"productId"`
	Name      string  `gorm:"not null"       json:"name"`
	UnitPrice float64 `gorm:"not null"       json:"unitPrice"`
	Quantity  uint    `gorm:"default:1;check:quantity>0" json:"quantity"`
	LineTotal float64 `gorm:"not null"       json:"lineTotal"`
}
