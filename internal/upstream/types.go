package upstream

import "time"

// Role is the closed set of account kinds on the marketplace. Every place
// that branches by role compares against these constants, never free-form
// strings.
type Role string

const (
	// RoleCustomer is a couple browsing and booking wedding services.
	RoleCustomer Role = "customer"

	// RoleVendor is a business offering services and packages.
	RoleVendor Role = "vendor"

	// RoleAdmin is a platform administrator.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a wire string to a Role, reporting whether it is a
// known variant.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// User is the marketplace account record as returned by the API.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Active    bool   `json:"active"`
}

// Category is a service category (photography, catering, venues, ...).
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Vendor is a vendor's public storefront profile.
type Vendor struct {
	ID           string  `json:"id"`
	BusinessName string  `json:"business_name"`
	CategoryID   string  `json:"category_id"`
	City         string  `json:"city,omitempty"`
	Description  string  `json:"description,omitempty"`
	Rating       float64 `json:"rating"`
	Verified     bool    `json:"verified"`
	Active       bool    `json:"active"`
}

// Service is a single bookable offering by a vendor.
type Service struct {
	ID          string  `json:"id"`
	VendorID    string  `json:"vendor_id"`
	CategoryID  string  `json:"category_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Active      bool    `json:"active"`
}

// Package bundles several services at a combined price.
type Package struct {
	ID          string   `json:"id"`
	VendorID    string   `json:"vendor_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ServiceIDs  []string `json:"service_ids"`
	Price       float64  `json:"price"`
	Active      bool     `json:"active"`
}

// PortfolioItem is a work sample in a vendor's gallery.
type PortfolioItem struct {
	ID       string `json:"id"`
	VendorID string `json:"vendor_id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption,omitempty"`
}

// AvailabilitySlot is a date window a vendor accepts bookings for.
type AvailabilitySlot struct {
	ID       string    `json:"id"`
	VendorID string    `json:"vendor_id"`
	Date     time.Time `json:"date"`
	Open     bool      `json:"open"`
	Note     string    `json:"note,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ReferenceID string  `json:"reference_id"`
	Kind        string  `json:"kind"` // "service" or "package"
	Title       string  `json:"title"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Order is a customer's booking order.
type Order struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"customer_id"`
	Items      []OrderItem `json:"items"`
	Total      float64     `json:"total"`
	Status     string      `json:"status"` // pending, confirmed, completed, cancelled
	EventDate  *time.Time  `json:"event_date,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Settings holds platform-wide configuration editable by admins.
type Settings struct {
	SiteName         string  `json:"site_name"`
	SupportEmail     string  `json:"support_email"`
	CommissionRate   float64 `json:"commission_rate"`
	MaintenanceMode  bool    `json:"maintenance_mode"`
	RegistrationOpen bool    `json:"registration_open"`
}

// ListMeta carries pagination metadata alongside collection responses.
type ListMeta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
}

// --- Auth request/response shapes ---

// Credentials is the login input. Role is the tab the user selected; the
// backend remains authoritative about which role the account actually has.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Registration is the sign-up input. Registering never returns a token;
// the account must log in afterwards.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     Role   `json:"role"`
}

// LoginResult is the successful login response.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
