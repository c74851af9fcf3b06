package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chidubem/paylinq/internal/helpers"
	"github.com/chidubem/paylinq/internal/middleware"
	"github.com/chidubem/paylinq/internal/models"
	"github.com/chidubem/paylinq/internal/notifier"
)

type CreatePaymentMethodRequest struct {
	Name    string               `json:"name" binding:"required,min=2"`
	Type    models.MethodType    `json:"type" binding:"required"`
	Status  models.MethodStatus  `json:"status"`
	Details models.MethodDetails `json:"details"`
}

// UpdatePaymentMethodRequest carries only the fields the caller wants
// changed. Absent fields are never written, so a partial update cannot
// clobber what it does not mention.
type UpdatePaymentMethodRequest struct {
	Name    *string               `json:"name"`
	Status  *models.MethodStatus  `json:"status"`
	Details *models.MethodDetails `json:"details"`
}

func CreatePaymentMethod(c *gin.Context) {
	var req CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !models.ValidMethodType(req.Type) {
		helpers.RespondWithFieldErrors(c, models.FieldErrors{"type": "Invalid payment type"})
		return
	}

	req.Details.Normalize(req.Type)
	if errs := req.Details.Validate(req.Type); !errs.Empty() {
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

	status := req.Status
	if status == "" {
		status = models.MethodStatusActive
	}

	method := models.PaymentMethod{
		UserID:  user.ID,
		Type:    req.Type,
		Name:    req.Name,
		Status:  status,
		Details: req.Details,
	}

	if err := gormDB.Create(&method).Error; err != nil {
		notifyError(c, "Failed to add payment method")
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create payment method.")
		return
	}

	notifySuccess(c, "Payment method added successfully")
	c.JSON(http.StatusCreated, gin.H{
		"message":        "Payment method created successfully.",
		"payment_method": method,
	})
}

func ListPaymentMethods(c *gin.Context) {
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

	var methods []models.PaymentMethod
	if err := gormDB.Where("user_id = ?", userID).Order("created_at DESC").Find(&methods).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment methods.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment_methods": methods})
}

func GetPaymentMethod(c *gin.Context) {
	methodID := c.Param("id")
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

	var method models.PaymentMethod
	if err := gormDB.Where("id = ? AND user_id = ?", methodID, userID).First(&method).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment method not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving payment method.")
		return
	}

	c.JSON(http.StatusOK, method)
}

func UpdatePaymentMethod(c *gin.Context) {
	methodID := c.Param("id")
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var method models.PaymentMethod
	if err := gormDB.Where("id = ? AND user_id = ?", methodID, userID).First(&method).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Payment method not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding payment method.")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		if len(*req.Name) < 2 {
			helpers.RespondWithFieldErrors(c, models.FieldErrors{"name": "Name must be at least 2 characters"})
			return
		}
		updates["name"] = *req.Name
	}
	if req.Status != nil {
		if *req.Status != models.MethodStatusActive && *req.Status != models.MethodStatusInactive {
			helpers.RespondWithFieldErrors(c, models.FieldErrors{"status": "Status must be active or inactive"})
			return
		}
		updates["status"] = *req.Status
	}
	if req.Details != nil {
		req.Details.Normalize(method.Type)
		if errs := req.Details.Validate(method.Type); !errs.Empty() {
			helpers.RespondWithFieldErrors(c, errs)
			return
		}
		updates["details"] = *req.Details
	}

	if len(updates) > 0 {
		if err := gormDB.Model(&method).Updates(updates).Error; err != nil {
			notifyError(c, "Failed to update payment method")
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update payment method.")
			return
		}
	}

	notifySuccess(c, "Payment method updated successfully")
	c.JSON(http.StatusOK, gin.H{
		"message":        "Payment method updated successfully.",
		"payment_method": method,
	})
}

// DeletePaymentMethod removes the method without checking whether a payment
// link still references it. A link resolving a missing method treats it as
// unavailable, not as an error.
func DeletePaymentMethod(c *gin.Context) {
	methodID := c.Param("id")
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

	result := gormDB.Where("id = ? AND user_id = ?", methodID, userID).Delete(&models.PaymentMethod{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete payment method.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Payment method not found or you don't have permission to delete.")
		return
	}

	notifySuccess(c, "Payment method deleted successfully")
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment method deleted successfully.",
	})
}

func notifySuccess(c *gin.Context, message string) {
	pushNotification(c, notifier.TypeSuccess, message)
}

func notifyError(c *gin.Context, message string) {
	pushNotification(c, notifier.TypeError, message)
}

func pushNotification(c *gin.Context, notificationType, message string) {
	n := middleware.GetNotifier(c)
	if n == nil {
		return
	}
	userID, exists := c.Get("user_id")
	if !exists {
		return
	}
	n.Push(userID.(string), notificationType, message)
}
