package model

import "time"

// AgentStatus is the lifecycle status of an agent record.
type AgentStatus string

const (
	// AgentStatusActive is assigned at OTP-confirmation time. Records are
	// never hard-deleted, so this is currently the only status in use.
	AgentStatusActive AgentStatus = "active"
)

// Agent represents a registered matrimony agent. The record is keyed by the
// identity token assigned by the verification gateway, not by a generated
// ObjectID.
type Agent struct {
	IdentityToken string      `bson:"_id"            json:"identity_token"`
	Name          string      `bson:"name"           json:"name"`
	PhoneNumber   string      `bson:"phone_number"   json:"phone_number"`
	Email         string      `bson:"email"          json:"email"`
	DateOfBirth   string      `bson:"dob"            json:"dob"`
	Experience    int         `bson:"experience"     json:"experience"`
	Pincode       string      `bson:"pincode"        json:"pincode"`
	Region        string      `bson:"region"         json:"region"`
	District      string      `bson:"district"       json:"district"`
	State         string      `bson:"state"          json:"state"`
	AddressLine1  string      `bson:"address_line_1" json:"address_line_1"`
	AddressLine2  string      `bson:"address_line_2" json:"address_line_2,omitempty"`
	PhotoURL      string      `bson:"photo_url"      json:"photo_url"`
	AadhaarFront  string      `bson:"aadhaar_front_url" json:"aadhaar_front_url,omitempty"`
	AadhaarBack   string      `bson:"aadhaar_back_url"  json:"aadhaar_back_url,omitempty"`
	ReferenceCode string      `bson:"reference_code,omitempty" json:"reference_code,omitempty"`
	Status        AgentStatus `bson:"status"         json:"status"`
	CreatedAt     time.Time   `bson:"created_at"     json:"created_at"`
	LastLoginAt   time.Time   `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`

	// Business counters rendered by the dashboard. They are written by an
	// out-of-scope back office process; this service only reads them.
	TotalUsers           int64   `bson:"total_users"             json:"total_users"`
	ActiveUsers          int64   `bson:"active_users"            json:"active_users"`
	LastMonthActiveUsers int64   `bson:"last_month_active_users" json:"last_month_active_users"`
	PremiumUsers         int64   `bson:"premium_users"           json:"premium_users"`
	SuccessfulMatches    int64   `bson:"successful_matches"      json:"successful_matches"`
	TotalRevenue         float64 `bson:"total_revenue"           json:"total_revenue"`
	LastMonthRevenue     float64 `bson:"last_month_revenue"      json:"last_month_revenue"`
	PreviousMonthRevenue float64 `bson:"previous_month_revenue"  json:"previous_month_revenue"`
}
