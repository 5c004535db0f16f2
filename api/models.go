package api

import (
	"encoding/json"
	"time"
)

// User as serialized by the backend
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Vehicle holds the fields shared by cars and motorcycles.
// Price is a decimal string, e.g. "15999.99".
type Vehicle struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Year        int       `json:"year"`
	Color       string    `json:"color"`
	Engine      string    `json:"engine"`
	Mileage     int       `json:"mileage"`
	FuelType    string    `json:"fuel_type"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	IsSold      bool      `json:"is_sold"`
	CreatedBy   *User     `json:"created_by,omitempty"`
}

type Car struct {
	Vehicle
	Transmission string `json:"transmission"` // manual, automatic, electric
}

type Motorcycle struct {
	Vehicle
	Category string `json:"category"` // combustion, electric, automatic, semi_automatic
}

type ContactMessage struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	IsRead  bool      `json:"is_read"`
}

type Subscriber struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	SubscriptionDate time.Time `json:"subscription_date"`
	IsActive         bool      `json:"is_active"`
}

// SearchType restricts Search to a vehicle kind
type SearchType string

const (
	SearchAll         SearchType = "all"
	SearchCars        SearchType = "cars"
	SearchMotorcycles SearchType = "motorcycles"
)

// FeaturedItem is a curated home page entry. Exactly one of Car and Motorcycle is
// normally set; their payloads are kept raw.
type FeaturedItem struct {
	ID          int64           `json:"id"`
	VehicleType string          `json:"vehicle_type"`
	Title       string          `json:"title"`
	Price       json.Number     `json:"price"`
	ImageURL    *string         `json:"image_url"`
	Car         json.RawMessage `json:"car,omitempty"`
	Motorcycle  json.RawMessage `json:"motorcycle,omitempty"`
}

// Discount is a vehicle listed with a time-bounded price reduction.
// Prices are computed by the backend.
type Discount struct {
	ID                 int64       `json:"id"`
	Title              string      `json:"title"`
	Brand              string      `json:"brand"`
	Model              string      `json:"model"`
	Year               int         `json:"year"`
	OriginalPrice      json.Number `json:"original_price"`
	DiscountPercentage json.Number `json:"discount_percentage"`
	NewPrice           json.Number `json:"new_price"`
	ImageURL           *string     `json:"image_url"`
}
