package progression

import (
	"testing"

	courseModels "medlearn/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func video(id uint, position int, requiresQuiz bool) courseModels.Video {
	return courseModels.Video{
		Model:        gorm.Model{ID: id},
		CourseID:     1,
		Position:     position,
		RequiresQuiz: requiresQuiz,
	}
}

func option(label, text string) courseModels.QuestionOption {
	return courseModels.QuestionOption{Label: label, OptionText: text}
}

// threeVideoCourse mirrors the common shape: only the middle video is quiz gated
func threeVideoCourse() []courseModels.Video {
	return []courseModels.Video{
		video(10, 0, false),
		video(11, 1, true),
		video(12, 2, false),
	}
}

func TestResolveEntryPoint(t *testing.T) {
	videos := threeVideoCourse()

	testCases := []struct {
		name     string
		progress map[uint]courseModels.VideoProgress
		expected int
	}{
		{
			name:     "fresh user starts at the first video",
			progress: map[uint]courseModels.VideoProgress{},
			expected: 0,
		},
		{
			name: "incomplete first video keeps the user there",
			progress: map[uint]courseModels.VideoProgress{
				10: {VideoID: 10, Completed: false, WatchedSeconds: 30},
			},
			expected: 0,
		},
		{
			name: "completed first video moves to the second",
			progress: map[uint]courseModels.VideoProgress{
				10: {VideoID: 10, Completed: true},
			},
			expected: 1,
		},
		{
			name: "watched but unpassed quiz holds the user on the gated video",
			progress: map[uint]courseModels.VideoProgress{
				10: {VideoID: 10, Completed: true},
				11: {VideoID: 11, Completed: true, QuizPassed: false},
			},
			expected: 1,
		},
		{
			name: "passed quiz releases the next video",
			progress: map[uint]courseModels.VideoProgress{
				10: {VideoID: 10, Completed: true},
				11: {VideoID: 11, Completed: true, QuizPassed: true},
			},
			expected: 2,
		},
		{
			name: "fully completed course resumes at the last video",
			progress: map[uint]courseModels.VideoProgress{
				10: {VideoID: 10, Completed: true},
				11: {VideoID: 11, Completed: true, QuizPassed: true},
				12: {VideoID: 12, Completed: true},
			},
			expected: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveEntryPoint(videos, tc.progress))

			// Idempotent: a second call without mutation returns the same index
			assert.Equal(t, tc.expected, ResolveEntryPoint(videos, tc.progress))
		})
	}
}

func TestResolveEntryPointEmptyCourse(t *testing.T) {
	assert.Equal(t, 0, ResolveEntryPoint(nil, map[uint]courseModels.VideoProgress{}))
}

func TestCanAccess(t *testing.T) {
	videos := threeVideoCourse()

	t.Run("first video is always accessible", func(t *testing.T) {
		assert.True(t, CanAccess(0, videos, map[uint]courseModels.VideoProgress{}))
	})

	t.Run("later videos are locked for a fresh user", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{}
		assert.False(t, CanAccess(1, videos, progress))
		assert.False(t, CanAccess(2, videos, progress))
	})

	t.Run("completing an ungated video unlocks the next", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{
			10: {VideoID: 10, Completed: true},
		}
		assert.True(t, CanAccess(1, videos, progress))
		assert.False(t, CanAccess(2, videos, progress))
	})

	t.Run("a quiz gated video blocks the next until passed", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{
			10: {VideoID: 10, Completed: true},
			11: {VideoID: 11, Completed: true, QuizPassed: false},
		}
		assert.False(t, CanAccess(2, videos, progress))

		record := progress[11]
		record.QuizPassed = true
		progress[11] = record
		assert.True(t, CanAccess(2, videos, progress))
	})

	t.Run("out of range indexes return false without panicking", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{}
		assert.False(t, CanAccess(99, videos, progress))
		assert.False(t, CanAccess(-1, videos, progress))
		assert.False(t, CanAccess(3, videos, progress))
	})
}

// Access is purely chained: accessibility at i implies accessibility at i-1
func TestSequentialGating(t *testing.T) {
	videos := threeVideoCourse()

	progressStates := []map[uint]courseModels.VideoProgress{
		{},
		{10: {VideoID: 10, Completed: true}},
		{10: {VideoID: 10, Completed: true}, 11: {VideoID: 11, Completed: true}},
		{10: {VideoID: 10, Completed: true}, 11: {VideoID: 11, Completed: true, QuizPassed: true}},
		{
			10: {VideoID: 10, Completed: true},
			11: {VideoID: 11, Completed: true, QuizPassed: true},
			12: {VideoID: 12, Completed: true},
		},
	}

	for _, progress := range progressStates {
		for i := 1; i < len(videos); i++ {
			if CanAccess(i, videos, progress) {
				assert.True(t, CanAccess(i-1, videos, progress),
					"access at %d must imply access at %d", i, i-1)
			}
		}
	}
}

// Unlocks never regress when later videos record progress
func TestMonotonicUnlock(t *testing.T) {
	videos := threeVideoCourse()

	progress := map[uint]courseModels.VideoProgress{
		10: {VideoID: 10, Completed: true},
	}
	require.True(t, CanAccess(1, videos, progress))

	// Progress on index 1 and beyond must not lock index 1
	progress[11] = courseModels.VideoProgress{VideoID: 11, Completed: true, QuizPassed: true}
	progress[12] = courseModels.VideoProgress{VideoID: 12, Completed: true, WatchedSeconds: 300}

	assert.True(t, CanAccess(1, videos, progress))
	assert.True(t, CanAccess(2, videos, progress))
}

func quizQuestions() []courseModels.Question {
	return []courseModels.Question{
		{
			Model:        gorm.Model{ID: 100},
			CorrectLabel: "A",
			Options:      []courseModels.QuestionOption{option("A", "Aspirin"), option("B", "Ibuprofen")},
		},
		{
			Model:        gorm.Model{ID: 101},
			CorrectLabel: "B",
			Options:      []courseModels.QuestionOption{option("A", "120/80"), option("B", "140/90")},
		},
	}
}

func TestEvaluateQuiz(t *testing.T) {
	questions := quizQuestions()

	t.Run("all correct passes", func(t *testing.T) {
		result, err := EvaluateQuiz(questions, map[uint]string{100: "A", 101: "B"})
		require.NoError(t, err)
		assert.True(t, result.Passed)
		assert.Equal(t, 2, result.CorrectCount)
		assert.Equal(t, 2, result.TotalCount)
		assert.True(t, result.Correct[100])
		assert.True(t, result.Correct[101])
	})

	t.Run("a single wrong answer fails the attempt", func(t *testing.T) {
		result, err := EvaluateQuiz(questions, map[uint]string{100: "A", 101: "X"})
		require.NoError(t, err)
		assert.False(t, result.Passed)
		assert.Equal(t, 1, result.CorrectCount)
		assert.True(t, result.Correct[100])
		assert.False(t, result.Correct[101])
	})

	t.Run("labels are compared case-sensitively", func(t *testing.T) {
		result, err := EvaluateQuiz(questions, map[uint]string{100: "a", 101: "B"})
		require.NoError(t, err)
		assert.False(t, result.Passed)
		assert.False(t, result.Correct[100])
	})

	t.Run("missing answers are rejected without scoring", func(t *testing.T) {
		result, err := EvaluateQuiz(questions, map[uint]string{100: "A"})
		assert.Nil(t, result)
		require.ErrorIs(t, err, ErrIncompleteSubmission)
	})

	t.Run("malformed options are not reported as an incomplete submission", func(t *testing.T) {
		broken := []courseModels.Question{
			{
				Model:        gorm.Model{ID: 102},
				CorrectLabel: "A",
				Options: []courseModels.QuestionOption{
					option("", "1"), option("", "2"), option("", "3"), option("", "4"), option("", "5"),
				},
			},
		}
		_, err := EvaluateQuiz(broken, map[uint]string{102: "A"})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.NotErrorIs(t, err, ErrIncompleteSubmission)
	})

	t.Run("extra answers for unknown questions are ignored", func(t *testing.T) {
		result, err := EvaluateQuiz(questions, map[uint]string{100: "A", 101: "B", 999: "C"})
		require.NoError(t, err)
		assert.True(t, result.Passed)
		assert.Len(t, result.Correct, 2)
	})

	t.Run("empty question set is rejected", func(t *testing.T) {
		_, err := EvaluateQuiz(nil, map[uint]string{})
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestOptionLabel(t *testing.T) {
	testCases := []struct {
		name     string
		option   courseModels.QuestionOption
		index    int
		expected string
		wantErr  bool
	}{
		{"explicit label wins", option("C", "Paracetamol"), 0, "C", false},
		{"letter prefix with parenthesis", option("", "B) Aspirin"), 0, "B", false},
		{"letter prefix with dot", option("", "D. None of the above"), 1, "D", false},
		{"positional fallback", option("", "Plain text"), 2, "C", false},
		{"fifth unlabeled option is rejected", option("", "Plain text"), 4, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			label, err := OptionLabel(tc.option, tc.index)
			if tc.wantErr {
				var validationErr *ValidationError
				require.ErrorAs(t, err, &validationErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, label)
		})
	}
}

func TestQuestionLabels(t *testing.T) {
	t.Run("duplicate labels are rejected", func(t *testing.T) {
		question := courseModels.Question{
			Options: []courseModels.QuestionOption{option("A", "one"), option("A", "two")},
		}
		_, err := QuestionLabels(question)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("mixed explicit and positional labels resolve in order", func(t *testing.T) {
		question := courseModels.Question{
			Options: []courseModels.QuestionOption{option("A", "one"), option("", "two"), option("", "three")},
		}
		labels, err := QuestionLabels(question)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C"}, labels)
	})

	t.Run("more than four unlabeled options fail instead of truncating", func(t *testing.T) {
		question := courseModels.Question{
			Options: []courseModels.QuestionOption{
				option("", "1"), option("", "2"), option("", "3"), option("", "4"), option("", "5"),
			},
		}
		_, err := QuestionLabels(question)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

// Walks the full three-video scenario end to end
func TestProgressionScenario(t *testing.T) {
	videos := threeVideoCourse()
	questions := quizQuestions()
	progress := map[uint]courseModels.VideoProgress{}

	// Fresh user
	assert.Equal(t, 0, ResolveEntryPoint(videos, progress))
	assert.True(t, CanAccess(0, videos, progress))
	assert.False(t, CanAccess(1, videos, progress))
	assert.False(t, CanAccess(2, videos, progress))

	// Watch video 0 (no quiz requirement)
	progress[10] = courseModels.VideoProgress{VideoID: 10, Completed: true, WatchedSeconds: 120}
	assert.True(t, CanAccess(1, videos, progress))
	assert.False(t, CanAccess(2, videos, progress))

	// Watch video 1 and fail its quiz
	progress[11] = courseModels.VideoProgress{VideoID: 11, Completed: true}
	result, err := EvaluateQuiz(questions, map[uint]string{100: "A", 101: "X"})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.False(t, CanAccess(2, videos, progress))

	// Retry with the right answers
	result, err = EvaluateQuiz(questions, map[uint]string{100: "A", 101: "B"})
	require.NoError(t, err)
	assert.True(t, result.Passed)

	record := progress[11]
	record.QuizPassed = true
	progress[11] = record
	assert.True(t, CanAccess(2, videos, progress))
	assert.Equal(t, 2, ResolveEntryPoint(videos, progress))
}
