package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleStaff UserRole = "STAFF"
)

// User is a local display label only; there is no authentication layer.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// Product is keyed by its SKU, which doubles as the printed barcode value.
// The SKU is immutable once the product exists.
type Product struct {
	SKU       string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Category  string    `json:"category" bson:"category"`
	PhoneType string    `json:"phoneType" bson:"phoneType"`
	Variant   string    `json:"variant,omitempty" bson:"variant,omitempty"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty"`
	Stock     int       `json:"stock" bson:"stock"`
	MinStock  int       `json:"minStock" bson:"minStock"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// LowStock reports whether the product is at or below its reorder threshold.
func (p Product) LowStock() bool {
	return p.Stock <= p.MinStock
}

type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// Delta returns the signed stock change for a quantity moved in this direction.
func (t TransactionType) Delta(quantity int) int {
	if t == TransactionOut {
		return -quantity
	}
	return quantity
}

func (t TransactionType) Valid() bool {
	return t == TransactionIn || t == TransactionOut
}

// Transaction is one immutable ledger entry. ProductName is denormalized at
// creation time and intentionally not kept in sync with later renames.
// Timestamp is assigned by the store when the entry is appended.
type Transaction struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID   string             `json:"productId" bson:"productId"`
	ProductName string             `json:"productName" bson:"productName"`
	Type        TransactionType    `json:"type" bson:"type"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	Note        string             `json:"note" bson:"note"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
	UserName    string             `json:"userName" bson:"userName"`
}

// Settings is the single shared configuration document.
type Settings struct {
	ID         string   `json:"-" bson:"_id"`
	Categories []string `json:"categories" bson:"categories"`
}

// DefaultCategories seeds the category set until the settings document exists.
var DefaultCategories = []string{"Case", "Charger", "Cable", "Headset", "Screen Protector"}

// ScanMode selects what happens with a decoded barcode: Manual routes to a
// confirmation step, the auto modes apply a quantity-1 movement immediately.
type ScanMode string

const (
	ModeManual  ScanMode = "manual"
	ModeAutoIn  ScanMode = "in"
	ModeAutoOut ScanMode = "out"
)

func (m ScanMode) Valid() bool {
	return m == ModeManual || m == ModeAutoIn || m == ModeAutoOut
}
