package controllers

import (
	"log"
	"medlearn/database"
	"medlearn/middleware"
	"medlearn/models"
	courseModels "medlearn/models/course"
	"medlearn/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestCertificate creates a certificate request for a fully completed course
func RequestCertificate(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check if user is enrolled and has completed the course
	enrollment, err := requireEnrollment(database.Database.Db, userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}
	if enrollment.Status != "COMPLETED" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course is not fully completed yet!", nil)
	}

	// Check if a request already exists
	var existingRequest courseModels.CertificateRequest
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&existingRequest).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already requested for this course!", nil)
	}

	request := courseModels.CertificateRequest{
		UserID:       userID,
		CourseID:     uint(courseID),
		EnrollmentID: enrollment.ID,
		Status:       "PENDING",
		RequestedAt:  time.Now(),
	}

	if err := database.Database.Db.Create(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to request certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate requested successfully!", request)
}

// GetUserCertificates lists the user's issued certificates
func GetUserCertificates(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certificates)
}

// GetCertificateRequests lists certificate requests, newest first (admin only)
func GetCertificateRequests(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	_, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db.Where("is_deleted = ?", false)
	if status := c.Query("status"); status != "" {
		db = db.Where("status = ?", status)
	}

	var requests []courseModels.CertificateRequest
	if err := db.Order("created_at desc").Find(&requests).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificate requests!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate requests fetched successfully!", requests)
}

// ApproveCertificate issues a certificate for a pending request (admin only)
func ApproveCertificate(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}
	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already processed!", nil)
	}

	now := time.Now()
	request.Status = "APPROVED"
	request.ApprovedAt = &now
	request.ApprovedBy = &adminID

	certificate := courseModels.Certificate{
		UserID:            request.UserID,
		CourseID:          request.CourseID,
		CertificateNumber: uuid.NewString(),
		IssuedAt:          now,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Save(&request).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to approve certificate!", nil)
	}
	if err := tx.Create(&certificate).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}
	tx.Commit()

	// Notify the learner
	var learner models.User
	if err := database.Database.Db.Where("id = ?", request.UserID).First(&learner).Error; err == nil {
		var courseRecord courseModels.Course
		database.Database.Db.Where("id = ?", request.CourseID).First(&courseRecord)
		go utils.SendCertificateIssuedEmail(learner.Email, learner.Name, courseRecord.Title, certificate.CertificateNumber)
	} else {
		log.Printf("[CERTIFICATE] Could not load user %d for notification: %v", request.UserID, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate issued successfully!", certificate)
}

// RejectCertificate rejects a pending certificate request (admin only)
func RejectCertificate(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	requestID := c.Locals("requestID").(int)
	reqData := c.Locals("validatedRejection").(*struct {
		Reason string `json:"reason"`
	})

	var request courseModels.CertificateRequest
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", requestID, false).First(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate request not found!", nil)
	}
	if request.Status != "PENDING" {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate request already processed!", nil)
	}

	now := time.Now()
	request.Status = "REJECTED"
	request.ApprovedAt = &now
	request.ApprovedBy = &adminID
	request.RejectionReason = reqData.Reason

	if err := database.Database.Db.Save(&request).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reject certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate request rejected!", request)
}
