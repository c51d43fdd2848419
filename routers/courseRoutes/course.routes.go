package courseRoutes

import (
	controllers "medlearn/controllers/course"
	"medlearn/middleware"
	validators "medlearn/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseParam(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseParam(), controllers.EnrollInCourse)

	// Course with per-video unlock state and resume point
	userGroup.Get("/:id/with-progress", middleware.JWTMiddleware, validators.CourseParam(), controllers.GetCourseWithProgress)

	// Watch progress recording
	userGroup.Post("/:course_id/video/:video_id/progress", middleware.JWTMiddleware, validators.CourseVideoParams(), validators.RecordProgress(), controllers.RecordVideoWatched)

	// Quiz (served lazily, answers stripped) and submission
	userGroup.Get("/:course_id/video/:video_id/questions", middleware.JWTMiddleware, validators.CourseVideoParams(), controllers.GetVideoQuestions)
	userGroup.Post("/:course_id/video/:video_id/quiz/submit", middleware.JWTMiddleware, validators.CourseVideoParams(), validators.SubmitQuiz(), controllers.SubmitQuiz)

	// Progress tracking
	userGroup.Get("/:course_id/progress", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.GetUserProgress)

	// Certificate request
	userGroup.Post("/:course_id/certificate/request", middleware.JWTMiddleware, validators.CourseIDParam(), controllers.RequestCertificate)

	// User enrollments and certificates
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, controllers.GetUserEnrollmentsList)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
}
