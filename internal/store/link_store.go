package store

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"github.com/chidubem/paylinq/internal/models"
)

// Timeline appends are executed as a single UPDATE with a jsonb concat and a
// status guard in the WHERE clause. Two racing transitions then cannot lose
// an entry: one UPDATE wins, the other matches zero rows.

func appendExpr(events ...models.TimelineEvent) (interface{}, error) {
	buf, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}
	return gorm.Expr("timeline || ?::jsonb", string(buf)), nil
}

// ExpireIfOverdue reconciles an overdue active/pending link to expired, both
// in memory and in the store. Zero rows affected means a concurrent reader
// already reconciled it; the in-memory state matches either way.
func ExpireIfOverdue(db *gorm.DB, link *models.PaymentLink, now time.Time) error {
	before := len(link.Timeline)
	if !link.EvaluateExpiry(now) {
		return nil
	}
	expr, err := appendExpr(link.Timeline[before:]...)
	if err != nil {
		return err
	}
	return db.Model(&models.PaymentLink{}).
		Where("id = ? AND status IN ?", link.ID, []models.LinkStatus{models.LinkStatusActive, models.LinkStatusPending}).
		Updates(map[string]interface{}{
			"status":   models.LinkStatusExpired,
			"timeline": expr,
		}).Error
}

// RecordProof persists a proof submission: upload appended, timeline
// appended, status flipped active -> pending, all in one guarded UPDATE. A
// zero-row update means the link left the active status between the caller's
// read and now, reported as the same state conflict a stale read would get.
func RecordProof(db *gorm.DB, link *models.PaymentLink, proof models.PaymentProof, methodName string, now time.Time) error {
	before := len(link.Timeline)
	if err := link.SubmitProof(proof, methodName, now); err != nil {
		return err
	}
	tlExpr, err := appendExpr(link.Timeline[before:]...)
	if err != nil {
		return err
	}
	upBuf, err := json.Marshal([]models.PaymentProof{proof})
	if err != nil {
		return err
	}
	res := db.Model(&models.PaymentLink{}).
		Where("id = ? AND status = ?", link.ID, models.LinkStatusActive).
		Updates(map[string]interface{}{
			"status":   models.LinkStatusPending,
			"timeline": tlExpr,
			"uploads":  gorm.Expr("uploads || ?::jsonb", string(upBuf)),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.StateConflictError{Action: "confirm payment on", Status: link.Status}
	}
	return nil
}

// MarkCompleted resolves the link at the merchant's request.
func MarkCompleted(db *gorm.DB, link *models.PaymentLink, now time.Time) error {
	return finalize(db, link, now, link.Complete)
}

// MarkCancelled withdraws the link at the merchant's request.
func MarkCancelled(db *gorm.DB, link *models.PaymentLink, now time.Time) error {
	return finalize(db, link, now, link.Cancel)
}

func finalize(db *gorm.DB, link *models.PaymentLink, now time.Time, transition func(time.Time) error) error {
	before := len(link.Timeline)
	prior := link.Status
	if err := transition(now); err != nil {
		return err
	}
	expr, err := appendExpr(link.Timeline[before:]...)
	if err != nil {
		return err
	}
	res := db.Model(&models.PaymentLink{}).
		Where("id = ? AND status = ?", link.ID, prior).
		Updates(map[string]interface{}{
			"status":   link.Status,
			"timeline": expr,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &models.StateConflictError{Action: "update", Status: prior}
	}
	return nil
}
