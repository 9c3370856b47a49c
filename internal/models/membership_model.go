package models

import "time"

type Membership struct {
	ID              string    `db:"id" json:"id"`
	ProfileID       string    `db:"profile_id" json:"profile_id"`
	PlanName        string    `db:"plan_name" json:"plan_name"`
	Status          string    `db:"status" json:"status"` // pending, active
	RazorpayOrderID string    `db:"razorpay_order_id" json:"razorpay_order_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

const (
	MembershipStatusPending = "pending"
	MembershipStatusActive  = "active"
)
