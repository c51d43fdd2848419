package courseRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medlearn/config"
	"medlearn/database"
	"medlearn/middleware"
	"medlearn/models"
	courseModels "medlearn/models/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type progressView struct {
	EntryPoint int `json:"entry_point"`
	Videos     []struct {
		ID         uint `json:"ID"`
		Accessible bool `json:"accessible"`
		Completed  bool `json:"completed"`
		QuizPassed bool `json:"quiz_passed"`
	} `json:"videos"`
}

type quizView struct {
	Passed       bool            `json:"passed"`
	Correct      map[string]bool `json:"correct"`
	CorrectCount int             `json:"correct_count"`
	TotalCount   int             `json:"total_count"`
}

var testDBCounter int

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:      "3000",
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	testDBCounter++
	dsn := fmt.Sprintf("file:routes_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	SetupCourseRoutes(app)
	return app
}

// seedCourse creates a user plus a three-video course where only the middle
// video is quiz gated; returns the learner's token and the seeded records
func seedCourse(t *testing.T) (string, courseModels.Course, []courseModels.Video, []courseModels.Question) {
	t.Helper()
	db := database.Database.Db

	user := models.User{Name: "Asha", Email: "asha@example.com", Password: "x", Role: "USER"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Triage Basics", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	videos := []courseModels.Video{
		{CourseID: course.ID, Title: "Intro", Position: 0, DurationSeconds: 120, IsPublished: true},
		{CourseID: course.ID, Title: "Vitals", Position: 1, DurationSeconds: 300, RequiresQuiz: true, IsPublished: true},
		{CourseID: course.ID, Title: "Escalation", Position: 2, DurationSeconds: 180, IsPublished: true},
	}
	for i := range videos {
		require.NoError(t, db.Create(&videos[i]).Error)
	}

	questions := []courseModels.Question{
		{VideoID: videos[1].ID, Prompt: "First-line analgesic?", CorrectLabel: "A", OrderIndex: 0},
		{VideoID: videos[1].ID, Prompt: "Hypertension threshold?", CorrectLabel: "B", OrderIndex: 1},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
		for j, text := range []string{"first", "second"} {
			label := []string{"A", "B"}[j]
			opt := courseModels.QuestionOption{QuestionID: questions[i].ID, Label: label, OptionText: text, OrderIndex: j}
			require.NoError(t, db.Create(&opt).Error)
		}
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	require.NoError(t, err)

	return token, course, videos, questions
}

func doRequest(t *testing.T, app *fiber.App, method, url, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result envelope
	require.NoError(t, json.Unmarshal(raw, &result))
	return resp.StatusCode, result
}

func fetchProgress(t *testing.T, app *fiber.App, token string, courseID uint) progressView {
	t.Helper()

	code, result := doRequest(t, app, "GET", fmt.Sprintf("/course/%d/with-progress", courseID), token, nil)
	require.Equal(t, 200, code)

	var view progressView
	require.NoError(t, json.Unmarshal(result.Data, &view))
	return view
}

func TestCourseProgressionFlow(t *testing.T) {
	app := setupTestApp(t)
	token, course, videos, questions := seedCourse(t)

	// Enroll
	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, 200, code)

	// Fresh user: entry point 0, only the first video unlocked
	view := fetchProgress(t, app, token, course.ID)
	assert.Equal(t, 0, view.EntryPoint)
	assert.True(t, view.Videos[0].Accessible)
	assert.False(t, view.Videos[1].Accessible)
	assert.False(t, view.Videos[2].Accessible)

	// A locked video rejects watch progress
	code, result := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/progress", course.ID, videos[2].ID), token,
		fiber.Map{"watched_seconds": 10, "completed": true})
	require.Equal(t, 403, code)
	assert.Contains(t, result.Message, "isn't unlocked")

	// Watch the first video
	code, _ = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/progress", course.ID, videos[0].ID), token,
		fiber.Map{"watched_seconds": 120, "completed": true})
	require.Equal(t, 200, code)

	view = fetchProgress(t, app, token, course.ID)
	assert.Equal(t, 1, view.EntryPoint)
	assert.True(t, view.Videos[1].Accessible)
	assert.False(t, view.Videos[2].Accessible)

	// Watch the gated video; the response flags the pending quiz
	code, result = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/progress", course.ID, videos[1].ID), token,
		fiber.Map{"watched_seconds": 300, "completed": true})
	require.Equal(t, 200, code)
	var progressResp struct {
		QuizRequired bool `json:"quiz_required"`
	}
	require.NoError(t, json.Unmarshal(result.Data, &progressResp))
	assert.True(t, progressResp.QuizRequired)

	// The quiz payload never contains correct answers
	code, result = doRequest(t, app, "GET",
		fmt.Sprintf("/course/%d/video/%d/questions", course.ID, videos[1].ID), token, nil)
	require.Equal(t, 200, code)
	assert.False(t, strings.Contains(string(result.Data), "correct_label"))
	assert.False(t, strings.Contains(string(result.Data), "CorrectLabel"))

	q1 := fmt.Sprintf("%d", questions[0].ID)
	q2 := fmt.Sprintf("%d", questions[1].ID)

	// Incomplete submission is rejected and does not unlock anything
	code, result = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/quiz/submit", course.ID, videos[1].ID), token,
		fiber.Map{"answers": map[string]string{q1: "A"}})
	require.Equal(t, 422, code)
	assert.Contains(t, result.Message, "haven't answered")

	// A wrong answer fails the whole attempt
	code, result = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/quiz/submit", course.ID, videos[1].ID), token,
		fiber.Map{"answers": map[string]string{q1: "A", q2: "X"}})
	require.Equal(t, 200, code)
	var quiz quizView
	require.NoError(t, json.Unmarshal(result.Data, &quiz))
	assert.False(t, quiz.Passed)
	assert.Equal(t, 1, quiz.CorrectCount)
	assert.True(t, quiz.Correct[q1])
	assert.False(t, quiz.Correct[q2])

	view = fetchProgress(t, app, token, course.ID)
	assert.False(t, view.Videos[2].Accessible)
	assert.Equal(t, 1, view.EntryPoint)

	// Retry with everything correct
	code, result = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/quiz/submit", course.ID, videos[1].ID), token,
		fiber.Map{"answers": map[string]string{q1: "A", q2: "B"}})
	require.Equal(t, 200, code)
	require.NoError(t, json.Unmarshal(result.Data, &quiz))
	assert.True(t, quiz.Passed)
	assert.Equal(t, 2, quiz.CorrectCount)

	view = fetchProgress(t, app, token, course.ID)
	assert.True(t, view.Videos[2].Accessible)
	assert.True(t, view.Videos[1].QuizPassed)
	assert.Equal(t, 2, view.EntryPoint)

	// Re-failing an already passed quiz never revokes the pass
	code, result = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/quiz/submit", course.ID, videos[1].ID), token,
		fiber.Map{"answers": map[string]string{q1: "B", q2: "A"}})
	require.Equal(t, 200, code)
	require.NoError(t, json.Unmarshal(result.Data, &quiz))
	assert.False(t, quiz.Passed)

	view = fetchProgress(t, app, token, course.ID)
	assert.True(t, view.Videos[1].QuizPassed)
	assert.True(t, view.Videos[2].Accessible)
}

func TestWatchedSecondsNeverDecrease(t *testing.T) {
	app := setupTestApp(t)
	token, course, videos, _ := seedCourse(t)

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, 200, code)

	code, _ = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/progress", course.ID, videos[0].ID), token,
		fiber.Map{"watched_seconds": 90, "completed": true})
	require.Equal(t, 200, code)

	// A lower report keeps the previous high-water mark
	code, result := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/progress", course.ID, videos[0].ID), token,
		fiber.Map{"watched_seconds": 30, "completed": true})
	require.Equal(t, 200, code)

	var resp struct {
		Progress struct {
			WatchedSeconds int `json:"watched_seconds"`
		} `json:"progress"`
	}
	require.NoError(t, json.Unmarshal(result.Data, &resp))
	assert.Equal(t, 90, resp.Progress.WatchedSeconds)
}

func TestQuizRequiresEnrollment(t *testing.T) {
	app := setupTestApp(t)
	token, course, videos, _ := seedCourse(t)

	code, result := doRequest(t, app, "GET",
		fmt.Sprintf("/course/%d/video/%d/questions", course.ID, videos[1].ID), token, nil)
	require.Equal(t, 403, code)
	assert.Contains(t, result.Message, "not enrolled")
}

// An expired subscription locks premium content mid-course, not just at enrollment
func TestPremiumCourseLocksWhenSubscriptionLapses(t *testing.T) {
	app := setupTestApp(t)
	db := database.Database.Db

	user := models.User{Name: "Ravi", Email: "ravi@example.com", Password: "x", Role: "USER"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Advanced Pharmacology", Status: "ACTIVE", IsPublished: true, IsPremium: true}
	require.NoError(t, db.Create(&course).Error)

	videos := []courseModels.Video{
		{CourseID: course.ID, Title: "Kinetics", Position: 0, RequiresQuiz: true, IsPublished: true},
		{CourseID: course.ID, Title: "Dynamics", Position: 1, IsPublished: true},
	}
	for i := range videos {
		require.NoError(t, db.Create(&videos[i]).Error)
	}

	question := courseModels.Question{VideoID: videos[0].ID, Prompt: "Half-life of drug X?", CorrectLabel: "A"}
	require.NoError(t, db.Create(&question).Error)
	opt := courseModels.QuestionOption{QuestionID: question.ID, Label: "A", OptionText: "4 hours"}
	require.NoError(t, db.Create(&opt).Error)
	opt = courseModels.QuestionOption{QuestionID: question.ID, Label: "B", OptionText: "8 hours"}
	require.NoError(t, db.Create(&opt).Error)

	now := time.Now()
	expires := now.AddDate(0, 1, 0)
	sub := models.Subscription{
		UserID:       user.ID,
		Plan:         models.PeriodMonthly,
		Status:       models.SubscriptionActive,
		SubscribedAt: now,
		ExpiresAt:    &expires,
	}
	require.NoError(t, db.Create(&sub).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	require.NoError(t, err)

	// With an active subscription everything works
	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, 200, code)

	code, _ = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/progress", course.ID, videos[0].ID), token,
		fiber.Map{"watched_seconds": 60, "completed": true})
	require.Equal(t, 200, code)

	// Subscription lapses after enrollment
	sub.Status = models.SubscriptionExpired
	require.NoError(t, db.Save(&sub).Error)

	q := fmt.Sprintf("%d", question.ID)
	paths := []struct {
		method string
		url    string
		body   interface{}
	}{
		{"GET", fmt.Sprintf("/course/%d/with-progress", course.ID), nil},
		{"POST", fmt.Sprintf("/course/%d/video/%d/progress", course.ID, videos[0].ID),
			fiber.Map{"watched_seconds": 90, "completed": true}},
		{"GET", fmt.Sprintf("/course/%d/video/%d/questions", course.ID, videos[0].ID), nil},
		{"POST", fmt.Sprintf("/course/%d/video/%d/quiz/submit", course.ID, videos[0].ID),
			fiber.Map{"answers": map[string]string{q: "A"}}},
		{"GET", fmt.Sprintf("/course/%d/progress", course.ID), nil},
	}
	for _, p := range paths {
		code, result := doRequest(t, app, p.method, p.url, token, p.body)
		require.Equal(t, 403, code, "%s %s must fail closed", p.method, p.url)
		assert.Contains(t, result.Message, "subscription")
	}
}

// Broken quiz data is reported as such, not as the user's mistake
func TestMalformedQuizOptionsMessage(t *testing.T) {
	app := setupTestApp(t)
	db := database.Database.Db
	token, course, videos, _ := seedCourse(t)

	// Attach a question whose five options carry no labels at all
	broken := courseModels.Question{VideoID: videos[0].ID, Prompt: "Pick one", CorrectLabel: "A"}
	require.NoError(t, db.Create(&broken).Error)
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		opt := courseModels.QuestionOption{QuestionID: broken.ID, OptionText: text}
		require.NoError(t, db.Create(&opt).Error)
	}

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, 200, code)

	q := fmt.Sprintf("%d", broken.ID)
	code, result := doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/quiz/submit", course.ID, videos[0].ID), token,
		fiber.Map{"answers": map[string]string{q: "A"}})
	require.Equal(t, 422, code)
	assert.Contains(t, result.Message, "malformed options")
	assert.NotContains(t, result.Message, "haven't answered")
}

func TestUnknownVideoReturnsNotFound(t *testing.T) {
	app := setupTestApp(t)
	token, course, _, _ := seedCourse(t)

	code, _ := doRequest(t, app, "POST", fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, 200, code)

	code, _ = doRequest(t, app, "POST",
		fmt.Sprintf("/course/%d/video/%d/progress", course.ID, 9999), token,
		fiber.Map{"watched_seconds": 10, "completed": true})
	require.Equal(t, 404, code)
}
