package models

import (
	"database/sql/driver"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MethodType string

const (
	MethodTypeBank   MethodType = "bank"
	MethodTypeCrypto MethodType = "crypto"
	MethodTypePaypal MethodType = "paypal"
	MethodTypeStripe MethodType = "stripe"
	MethodTypeOther  MethodType = "other"
)

func ValidMethodType(t MethodType) bool {
	switch t {
	case MethodTypeBank, MethodTypeCrypto, MethodTypePaypal, MethodTypeStripe, MethodTypeOther:
		return true
	}
	return false
}

type MethodStatus string

const (
	MethodStatusActive   MethodStatus = "active"
	MethodStatusInactive MethodStatus = "inactive"
)

// FieldErrors maps an offending field name to a human-readable message.
type FieldErrors map[string]string

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

type BankDetails struct {
	BankName          string `json:"bankName"`
	AccountNumber     string `json:"accountNumber"`
	AccountHolderName string `json:"accountHolderName"`
	SwiftCode         string `json:"swiftCode,omitempty"`
	RoutingNumber     string `json:"routingNumber,omitempty"`
}

type CryptoDetails struct {
	WalletAddress string `json:"walletAddress"`
	CryptoNetwork string `json:"cryptoNetwork"`
	CryptoType    string `json:"cryptoType,omitempty"`
}

type PaypalDetails struct {
	PaypalEmail      string `json:"paypalEmail"`
	AccountType      string `json:"accountType,omitempty"`
	BusinessName     string `json:"businessName,omitempty"`
	PaypalMeUsername string `json:"paypalMeUsername,omitempty"`
	Country          string `json:"country,omitempty"`
	Currency         string `json:"currency,omitempty"`
}

type StripeDetails struct {
	StripeAccountID string `json:"stripeAccountId"`
	AccountType     string `json:"accountType,omitempty"`
	DisplayName     string `json:"displayName,omitempty"`
	Country         string `json:"country,omitempty"`
	Currency        string `json:"currency,omitempty"`
	Description     string `json:"description,omitempty"`
}

type OtherDetails struct {
	OtherDetails string `json:"otherDetails"`
}

// MethodDetails carries the payout instructions for exactly one method kind.
// The pointer matching the method's type must be set; the rest stay nil.
type MethodDetails struct {
	Bank   *BankDetails   `json:"bank,omitempty"`
	Crypto *CryptoDetails `json:"crypto,omitempty"`
	Paypal *PaypalDetails `json:"paypal,omitempty"`
	Stripe *StripeDetails `json:"stripe,omitempty"`
	Other  *OtherDetails  `json:"other,omitempty"`
}

func (d MethodDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *MethodDetails) Scan(value interface{}) error {
	return scanJSON(value, d)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Normalize fills defaults that creation tolerates omitting.
func (d *MethodDetails) Normalize(t MethodType) {
	if t == MethodTypeCrypto && d.Crypto != nil && blank(d.Crypto.CryptoType) {
		d.Crypto.CryptoType = "BTC"
	}
}

// Validate checks the detail shape required for the given method type. It is
// pure: wallet address formats are deliberately not checked beyond non-empty,
// since different chains use different formats.
func (d MethodDetails) Validate(t MethodType) FieldErrors {
	errs := FieldErrors{}
	switch t {
	case MethodTypeBank:
		if d.Bank == nil {
			errs["details"] = "Bank details are required"
			return errs
		}
		if blank(d.Bank.BankName) {
			errs["bankName"] = "Bank name is required"
		}
		if blank(d.Bank.AccountNumber) {
			errs["accountNumber"] = "Account number is required"
		}
		if blank(d.Bank.AccountHolderName) {
			errs["accountHolderName"] = "Account holder name is required"
		}
	case MethodTypeCrypto:
		if d.Crypto == nil {
			errs["details"] = "Crypto details are required"
			return errs
		}
		if blank(d.Crypto.WalletAddress) {
			errs["walletAddress"] = "Wallet address is required"
		}
		if blank(d.Crypto.CryptoNetwork) {
			errs["cryptoNetwork"] = "Network is required"
		}
	case MethodTypePaypal:
		if d.Paypal == nil {
			errs["details"] = "PayPal details are required"
			return errs
		}
		if blank(d.Paypal.PaypalEmail) {
			errs["paypalEmail"] = "PayPal email is required"
		} else if !emailPattern.MatchString(strings.TrimSpace(d.Paypal.PaypalEmail)) {
			errs["paypalEmail"] = "Invalid email format"
		}
		if d.Paypal.AccountType == "business" && blank(d.Paypal.BusinessName) {
			errs["businessName"] = "Business name is required"
		}
	case MethodTypeStripe:
		if d.Stripe == nil {
			errs["details"] = "Stripe details are required"
			return errs
		}
		if blank(d.Stripe.StripeAccountID) {
			errs["stripeAccountId"] = "Stripe account ID is required"
		}
		if !blank(d.Stripe.Country) && len(strings.TrimSpace(d.Stripe.Country)) != 2 {
			errs["country"] = "Country code must be 2 characters (e.g., US, GB)"
		}
	case MethodTypeOther:
		if d.Other == nil || blank(d.Other.OtherDetails) {
			errs["otherDetails"] = "Payment details are required"
		}
	default:
		errs["type"] = "Invalid payment type"
	}
	return errs
}

// PaymentMethod is a merchant's payout instructions of one specific kind.
type PaymentMethod struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Type      MethodType     `gorm:"not null" json:"type"`
	Name      string         `gorm:"not null" json:"name"`
	Status    MethodStatus   `gorm:"not null;default:'active'" json:"status"`
	Details   MethodDetails  `gorm:"type:jsonb;not null;default:'{}'" json:"details"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (method *PaymentMethod) BeforeCreate(tx *gorm.DB) (err error) {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	return
}

// Available reports whether a payer may be pointed at this method.
func (method *PaymentMethod) Available() bool {
	return method.Status == MethodStatusActive
}
