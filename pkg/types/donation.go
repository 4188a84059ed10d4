package types

import (
	"time"
)

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusCancelled DonationStatus = "cancelled"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusFailed, DonationStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is expected out of s.
func (s DonationStatus) Terminal() bool {
	return s.Valid() && s != DonationStatusPending
}

// CanTransition documents the lifecycle convention: the three terminal
// states are reachable from pending only. The stores do not enforce this;
// it exists so the admin surface can distinguish conventional transitions
// from overrides.
func CanTransition(from, to DonationStatus) bool {
	return from == DonationStatusPending && to.Terminal()
}

type PaymentMethod string

const (
	PaymentBankTransfer  PaymentMethod = "bank_transfer"
	PaymentHawala        PaymentMethod = "hawala"
	PaymentMoneyTransfer PaymentMethod = "money_transfer"
	PaymentCrypto        PaymentMethod = "crypto"
	PaymentCard          PaymentMethod = "card"
	PaymentPaypal        PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentBankTransfer, PaymentHawala, PaymentMoneyTransfer, PaymentCrypto, PaymentCard, PaymentPaypal:
		return true
	}
	return false
}

type Donation struct {
	ID             string         `db:"id" json:"id"`
	DonorName      string         `db:"donor_name" json:"donorName"`
	DonorEmail     string         `db:"donor_email" json:"donorEmail"`
	AmountCents    int64          `db:"amount_cents" json:"amountCents"`
	TargetID       string         `db:"target_id" json:"targetId"`
	PaymentMethod  PaymentMethod  `db:"payment_method" json:"paymentMethod"`
	TransactionRef *string        `db:"transaction_ref" json:"transactionRef,omitempty"`
	Message        *string        `db:"message" json:"message,omitempty"`
	Status         DonationStatus `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}

// DonationStats is the public aggregate view. Failed and cancelled
// donations are excluded from both counters.
type DonationStats struct {
	TotalCount       int64 `db:"total_count" json:"totalCount"`
	TotalAmountCents int64 `db:"total_amount_cents" json:"totalAmountCents"`
	MonthCount       int64 `db:"month_count" json:"monthCount"`
}

type TargetBreakdown struct {
	TargetID    string `db:"target_id" json:"targetId"`
	Count       int64  `db:"count" json:"count"`
	AmountCents int64  `db:"amount_cents" json:"amountCents"`
}

type MethodBreakdown struct {
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	Count         int64         `db:"count" json:"count"`
	AmountCents   int64         `db:"amount_cents" json:"amountCents"`
}

type DailyDonations struct {
	Day         time.Time `db:"day" json:"day"`
	Count       int64     `db:"count" json:"count"`
	AmountCents int64     `db:"amount_cents" json:"amountCents"`
}
