package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/chidubem/paylinq/internal/helpers"
	"github.com/chidubem/paylinq/internal/models"
	"github.com/chidubem/paylinq/internal/store"
)

type CreatePaymentLinkRequest struct {
	Amount           float64     `json:"amount"`
	Currency         string      `json:"currency"`
	ExpiresAt        time.Time   `json:"expiresAt"`
	Notes            string      `json:"notes"`
	PaymentMethodIDs []uuid.UUID `json:"paymentMethodIds"`
}

// UpdatePaymentLinkRequest carries only the fields the caller wants changed.
type UpdatePaymentLinkRequest struct {
	Amount           *float64    `json:"amount"`
	Currency         *string     `json:"currency"`
	ExpiresAt        *time.Time  `json:"expiresAt"`
	Notes            *string     `json:"notes"`
	PaymentMethodIDs []uuid.UUID `json:"paymentMethodIds"`
}

func validateLinkFields(amount *float64, currency *string, expiresAt *time.Time, methodIDs []uuid.UUID, requireMethods bool, now time.Time) models.FieldErrors {
	errs := models.FieldErrors{}
	if amount != nil && *amount <= 0 {
		errs["amount"] = "Amount must be positive"
	}
	if currency != nil && !models.ValidCurrency(*currency) {
		errs["currency"] = "Invalid currency"
	}
	if expiresAt != nil && !expiresAt.After(now) {
		errs["expiresAt"] = "Expiration date must be in the future"
	}
	if requireMethods && len(methodIDs) == 0 {
		errs["paymentMethodIds"] = "At least one payment method is required"
	}
	return errs
}

func CreatePaymentLink(c *gin.Context) {
	var req CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	now := time.Now()
	errs := validateLinkFields(&req.Amount, &req.Currency, &req.ExpiresAt, req.PaymentMethodIDs, true, now)
	if req.Amount == 0 {
		errs["amount"] = "Amount is required"
	}
	if req.Currency == "" {
		errs["currency"] = "Currency is required"
	}
	if req.ExpiresAt.IsZero() {
		errs["expiresAt"] = "Expiration date is required"
	}
	if !errs.Empty() {
		helpers.RespondWithFieldErrors(c, errs)
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var user models.User
	if err := gormDB.Where("id = ?", userID).First(&user).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	var ownedMethods int64
	if err := gormDB.Model(&models.PaymentMethod{}).
		Where("id IN ? AND user_id = ?", req.PaymentMethodIDs, user.ID).
		Count(&ownedMethods).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking payment methods.")
		return
	}
	if ownedMethods != int64(len(req.PaymentMethodIDs)) {
		helpers.RespondWithFieldErrors(c, models.FieldErrors{"paymentMethodIds": "One or more payment methods do not exist"})
		return
	}

	baseURL := c.GetString("app_base_url")
	reference := helpers.GenerateReference()
	link := models.NewPaymentLink(
		user.ID,
		reference,
		helpers.GenerateLink(reference, baseURL),
		req.Amount,
		req.Currency,
		req.ExpiresAt,
		req.Notes,
		req.PaymentMethodIDs,
		now,
	)

	if err := gormDB.Create(link).Error; err != nil {
		notifyError(c, "Failed to create payment link")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment link.")
		return
	}

	notifySuccess(c, "Payment link created successfully")
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Payment link created successfully.",
		"payment_link": link,
	})
}

func ListPaymentLinks(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	status := c.Query("status")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.PaymentLink{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var totalCount int64
	query.Count(&totalCount)

	var links []models.PaymentLink
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&links).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment links.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_links": links,
		"total":         totalCount,
		"page":          pageNum,
		"limit":         limitNum,
		"total_pages":   (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func ownedLink(c *gin.Context) (*gorm.DB, *models.PaymentLink, bool) {
	linkID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return nil, nil, false
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil, nil, false
	}
	gormDB := db.(*gorm.DB)

	var link models.PaymentLink
	if err := gormDB.Where("id = ? AND user_id = ?", linkID, userID).First(&link).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment link not found.")
			return nil, nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment link.")
		return nil, nil, false
	}

	return gormDB, &link, true
}

// GetPaymentLink returns the link detail view. Loading the view is the
// moment expiry gets reconciled: there is no background sweep.
func GetPaymentLink(c *gin.Context) {
	gormDB, link, ok := ownedLink(c)
	if !ok {
		return
	}

	if err := store.ExpireIfOverdue(gormDB, link, time.Now()); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating payment link status.")
		return
	}

	c.JSON(http.StatusOK, link)
}

func UpdatePaymentLink(c *gin.Context) {
	var req UpdatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, link, ok := ownedLink(c)
	if !ok {
		return
	}

	now := time.Now()
	if err := store.ExpireIfOverdue(gormDB, link, now); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating payment link status.")
		return
	}

	if !link.CanEdit() {
		helpers.RespondWithStateConflict(c, &models.StateConflictError{Action: "edit", Status: link.Status})
		return
	}

	errs := validateLinkFields(req.Amount, req.Currency, req.ExpiresAt, req.PaymentMethodIDs, false, now)
	if !errs.Empty() {
		helpers.RespondWithFieldErrors(c, errs)
		return
	}

	updates := map[string]interface{}{}
	if req.Amount != nil {
		updates["amount"] = *req.Amount
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.PaymentMethodIDs != nil {
		var ownedMethods int64
		if err := gormDB.Model(&models.PaymentMethod{}).
			Where("id IN ? AND user_id = ?", req.PaymentMethodIDs, link.UserID).
			Count(&ownedMethods).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error checking payment methods.")
			return
		}
		if ownedMethods != int64(len(req.PaymentMethodIDs)) {
			helpers.RespondWithFieldErrors(c, models.FieldErrors{"paymentMethodIds": "One or more payment methods do not exist"})
			return
		}
		updates["payment_method_ids"] = models.IDList(req.PaymentMethodIDs)
	}

	if len(updates) > 0 {
		// Field edits never touch the timeline; the guard keeps a link
		// another session just finalized from reopening.
		res := gormDB.Model(&models.PaymentLink{}).
			Where("id = ? AND status IN ?", link.ID, []models.LinkStatus{models.LinkStatusActive, models.LinkStatusPending}).
			Updates(updates)
		if res.Error != nil {
			notifyError(c, "Failed to update payment link")
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment link.")
			return
		}
		if res.RowsAffected == 0 {
			helpers.RespondWithStateConflict(c, &models.StateConflictError{Action: "edit", Status: link.Status})
			return
		}
		if err := gormDB.Where("id = ?", link.ID).First(link).Error; err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment link.")
			return
		}
	}

	notifySuccess(c, "Payment link updated successfully")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment link updated successfully.",
		"payment_link": link,
	})
}

// DeletePaymentLink removes the link and then best-effort removes the stored
// proof files. File removal is at-least-once, not transactional: a failed
// removal is logged and the delete still reports success.
func DeletePaymentLink(c *gin.Context) {
	gormDB, link, ok := ownedLink(c)
	if !ok {
		return
	}

	if err := gormDB.Delete(link).Error; err != nil {
		notifyError(c, "Failed to delete payment link")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment link.")
		return
	}

	for _, proof := range link.Uploads {
		if err := helpers.DeleteFile(proof.URL); err != nil {
			slog.Warn("failed to remove proof file", "file", proof.URL, "error", err)
		}
	}

	notifySuccess(c, "Payment link deleted successfully")
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment link deleted successfully.",
	})
}

func CompletePaymentLink(c *gin.Context) {
	gormDB, link, ok := ownedLink(c)
	if !ok {
		return
	}

	now := time.Now()
	if err := store.ExpireIfOverdue(gormDB, link, now); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating payment link status.")
		return
	}

	if err := store.MarkCompleted(gormDB, link, now); err != nil {
		if conflict, isConflict := err.(*models.StateConflictError); isConflict {
			helpers.RespondWithStateConflict(c, conflict)
			return
		}
		notifyError(c, "Failed to complete payment link")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to complete payment link.")
		return
	}

	notifySuccess(c, "Payment marked as completed")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment marked as completed.",
		"payment_link": link,
	})
}

func CancelPaymentLink(c *gin.Context) {
	gormDB, link, ok := ownedLink(c)
	if !ok {
		return
	}

	now := time.Now()
	if err := store.ExpireIfOverdue(gormDB, link, now); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error updating payment link status.")
		return
	}

	if err := store.MarkCancelled(gormDB, link, now); err != nil {
		if conflict, isConflict := err.(*models.StateConflictError); isConflict {
			helpers.RespondWithStateConflict(c, conflict)
			return
		}
		notifyError(c, "Failed to cancel payment link")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel payment link.")
		return
	}

	notifySuccess(c, "Payment link cancelled")
	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment link cancelled.",
		"payment_link": link,
	})
}

// PaymentLinkQR renders the payer URL as a PNG QR code.
func PaymentLinkQR(c *gin.Context) {
	_, link, ok := ownedLink(c)
	if !ok {
		return
	}

	png, err := qrcode.Encode(link.Link, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
