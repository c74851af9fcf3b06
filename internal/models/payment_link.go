package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LinkStatus string

const (
	LinkStatusActive    LinkStatus = "active"
	LinkStatusPending   LinkStatus = "pending"
	LinkStatusCompleted LinkStatus = "completed"
	LinkStatusExpired   LinkStatus = "expired"
	LinkStatusCancelled LinkStatus = "cancelled"
)

// Terminal reports whether no transition leads out of the status.
func (s LinkStatus) Terminal() bool {
	return s == LinkStatusCompleted || s == LinkStatusExpired || s == LinkStatusCancelled
}

var SupportedCurrencies = []string{"USD", "EUR", "GBP", "NGN", "CAD", "AUD", "JPY"}

func ValidCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// TimelineEvent is one human-readable entry in a link's audit trail.
type TimelineEvent struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// NewTimelineEvent renders the date the way the merchant dashboard shows it.
func NewTimelineEvent(title string, at time.Time) TimelineEvent {
	return TimelineEvent{Title: title, Date: at.Format("02/01/2006")}
}

type Timeline []TimelineEvent

func (t Timeline) Value() (driver.Value, error) {
	if t == nil {
		t = Timeline{}
	}
	return json.Marshal(t)
}

func (t *Timeline) Scan(value interface{}) error {
	return scanJSON(value, t)
}

// PaymentProof is a payer-submitted file asserting that payment was made.
type PaymentProof struct {
	URL        string    `json:"url"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
	UploadedBy string    `json:"uploadedBy,omitempty"`
}

type Uploads []PaymentProof

func (u Uploads) Value() (driver.Value, error) {
	if u == nil {
		u = Uploads{}
	}
	return json.Marshal(u)
}

func (u *Uploads) Scan(value interface{}) error {
	return scanJSON(value, u)
}

type IDList []uuid.UUID

func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	return json.Marshal(l)
}

func (l *IDList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
}

// PaymentLink is a shareable, time-boxed request for a specific amount,
// resolvable by its public reference code.
type PaymentLink struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Reference        string         `gorm:"not null;uniqueIndex" json:"reference"`
	Link             string         `gorm:"not null" json:"link"`
	Amount           float64        `gorm:"not null" json:"amount"`
	Currency         string         `gorm:"not null" json:"currency"`
	Status           LinkStatus     `gorm:"not null;default:'active'" json:"status"`
	Notes            string         `json:"notes,omitempty"`
	PaymentMethodIDs IDList         `gorm:"type:jsonb;not null;default:'[]'" json:"paymentMethodIds"`
	Timeline         Timeline       `gorm:"type:jsonb;not null;default:'[]'" json:"timeline"`
	Uploads          Uploads        `gorm:"type:jsonb;not null;default:'[]'" json:"uploads"`
	ExpiresAt        time.Time      `gorm:"not null" json:"expiresAt"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (link *PaymentLink) BeforeCreate(tx *gorm.DB) (err error) {
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	return
}

// StateConflictError reports an action attempted from a status that does not
// permit it.
type StateConflictError struct {
	Action string
	Status LinkStatus
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("cannot %s a %s payment link", e.Action, e.Status)
}

// NewPaymentLink seeds a link in the active status with its creation event.
func NewPaymentLink(userID uuid.UUID, reference, link string, amount float64, currency string, expiresAt time.Time, notes string, methodIDs []uuid.UUID, now time.Time) *PaymentLink {
	return &PaymentLink{
		UserID:           userID,
		Reference:        reference,
		Link:             link,
		Amount:           amount,
		Currency:         currency,
		Status:           LinkStatusActive,
		Notes:            notes,
		PaymentMethodIDs: methodIDs,
		Timeline:         Timeline{NewTimelineEvent("Payment link created", now)},
		Uploads:          Uploads{},
		ExpiresAt:        expiresAt,
	}
}

// Overdue reports whether the link's expiry time has passed.
func (link *PaymentLink) Overdue(now time.Time) bool {
	return !now.Before(link.ExpiresAt)
}

// CanEdit reports whether amount/currency/expiry/notes/methods may still
// change. Terminal links are frozen.
func (link *PaymentLink) CanEdit() bool {
	return !link.Status.Terminal()
}

// EvaluateExpiry lazily reconciles an overdue link to expired. It is
// idempotent: a link that already left active/pending is untouched, so
// re-evaluation never appends a duplicate timeline entry. Returns whether a
// transition happened.
func (link *PaymentLink) EvaluateExpiry(now time.Time) bool {
	if link.Status != LinkStatusActive && link.Status != LinkStatusPending {
		return false
	}
	if !link.Overdue(now) {
		return false
	}
	link.Status = LinkStatusExpired
	link.Timeline = append(link.Timeline, NewTimelineEvent("Payment link expired", now))
	return true
}

// SubmitProof records a payer's proof of payment and moves the link to
// pending. Only an active link accepts proof: a second submission, or one
// after expiry/completion/cancellation, is a state conflict.
func (link *PaymentLink) SubmitProof(proof PaymentProof, methodName string, now time.Time) error {
	if link.Status != LinkStatusActive {
		return &StateConflictError{Action: "confirm payment on", Status: link.Status}
	}
	link.Uploads = append(link.Uploads, proof)
	link.Timeline = append(link.Timeline, NewTimelineEvent("Payment proof submitted via "+methodName, now))
	link.Status = LinkStatusPending
	return nil
}

// Complete resolves the link at the merchant's request.
func (link *PaymentLink) Complete(now time.Time) error {
	if link.Status.Terminal() {
		return &StateConflictError{Action: "complete", Status: link.Status}
	}
	link.Status = LinkStatusCompleted
	link.Timeline = append(link.Timeline, NewTimelineEvent("Payment marked completed", now))
	return nil
}

// Cancel withdraws the link at the merchant's request.
func (link *PaymentLink) Cancel(now time.Time) error {
	if link.Status.Terminal() {
		return &StateConflictError{Action: "cancel", Status: link.Status}
	}
	link.Status = LinkStatusCancelled
	link.Timeline = append(link.Timeline, NewTimelineEvent("Payment link cancelled", now))
	return nil
}
