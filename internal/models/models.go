package models

import "time"

// Category is a support ticket category. Declaration order matters: it is
// the tie-break order when two categories score equally.
type Category string

const (
	CategoryTechnical Category = "TECHNICAL"
	CategoryBilling   Category = "BILLING"
	CategoryProduct   Category = "PRODUCT"
	CategoryGeneral   Category = "GENERAL"
	CategoryComplaint Category = "COMPLAINT"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryTechnical,
	CategoryBilling,
	CategoryProduct,
	CategoryGeneral,
	CategoryComplaint,
}

// Ticket priorities derived from urgency analysis.
const (
	PriorityNormal = "normal"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Ticket statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Ticket represents a support request with its classification fields.
type Ticket struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Category    Category  `json:"category"`
	Sentiment   float64   `json:"sentiment"`
	Confidence  float64   `json:"confidence"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Customer is a guest or host on the platform.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Type      string    `json:"type"` // "guest" or "host"
	CreatedAt time.Time `json:"created_at"`
}

// Agent is a support specialist shown on the dashboard.
type Agent struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Specialty Category `json:"specialty"`
}

// TicketStats is the aggregate snapshot behind the analytics view.
type TicketStats struct {
	Total        int              `json:"total"`
	ByCategory   map[Category]int `json:"by_category"`
	ByStatus     map[string]int   `json:"by_status"`
	ByPriority   map[string]int   `json:"by_priority"`
	AvgSentiment float64          `json:"avg_sentiment"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
