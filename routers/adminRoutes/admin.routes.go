package adminRoutes

import (
	adminControllers "medlearn/controllers/admin"
	courseControllers "medlearn/controllers/course"
	"medlearn/middleware"
	adminValidators "medlearn/validators/admin"
	courseValidators "medlearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up content management and trigger routes
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware)

	// Course management
	courseGroup := adminGroup.Group("/course", middleware.CheckPermissionMiddleware("manage-courses"))
	courseGroup.Get("/list", courseValidators.CourseList(), courseControllers.GetAllCoursesAdmin)
	courseGroup.Post("/create", adminValidators.CreateCourse(), courseControllers.CreateCourse)
	courseGroup.Put("/:id", courseValidators.CourseParam(), adminValidators.UpdateCourse(), courseControllers.UpdateCourse)
	courseGroup.Delete("/:id", courseValidators.CourseParam(), courseControllers.DeleteCourse)

	// Video management
	courseGroup.Post("/:id/video", courseValidators.CourseParam(), adminValidators.CreateVideo(), courseControllers.CreateVideo)
	courseGroup.Put("/:course_id/video/:video_id", courseValidators.CourseVideoParams(), adminValidators.UpdateVideo(), courseControllers.UpdateVideo)
	courseGroup.Delete("/:course_id/video/:video_id", courseValidators.CourseVideoParams(), courseControllers.DeleteVideo)

	// Question management
	questionGroup := adminGroup.Group("/video", middleware.CheckPermissionMiddleware("manage-courses"))
	questionGroup.Get("/:video_id/questions", adminValidators.VideoParam(), courseControllers.GetVideoQuestionsAdmin)
	questionGroup.Post("/:video_id/question", adminValidators.VideoParam(), adminValidators.CreateQuestion(), courseControllers.CreateQuestion)
	questionGroup.Delete("/question/:question_id", adminValidators.QuestionParam(), courseControllers.DeleteQuestion)

	// Certificate approval
	certificateGroup := adminGroup.Group("/certificate", middleware.CheckPermissionMiddleware("approve-certificates"))
	certificateGroup.Get("/requests", courseControllers.GetCertificateRequests)
	certificateGroup.Post("/:request_id/approve", adminValidators.RequestParam(), courseControllers.ApproveCertificate)
	certificateGroup.Post("/:request_id/reject", adminValidators.RequestParam(), adminValidators.RejectCertificate(), courseControllers.RejectCertificate)

	// Proactive trigger management
	triggerGroup := adminGroup.Group("/trigger", middleware.CheckPermissionMiddleware("manage-triggers"))
	triggerGroup.Get("/list", adminControllers.GetTriggers)
	triggerGroup.Post("/create", adminValidators.CreateTrigger(), adminControllers.CreateTrigger)
	triggerGroup.Post("/:trigger_id/toggle", adminValidators.TriggerParam(), adminControllers.ToggleTrigger)
	triggerGroup.Delete("/:trigger_id", adminValidators.TriggerParam(), adminControllers.DeleteTrigger)
}
