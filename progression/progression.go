// Package progression implements the sequential video unlocking and
// quiz-gating rules for courses. All functions are pure: they work on the
// course models and the user's progress records and never touch the database,
// so the caller reloads records and re-derives state on every request.
package progression

import (
	"regexp"

	courseModels "medlearn/models/course"
)

// positionalLabels is the fallback for legacy options stored without an
// explicit label. Questions with more than four such options are rejected.
var positionalLabels = []string{"A", "B", "C", "D"}

var labelPrefixRe = regexp.MustCompile(`^([A-Z])[.)]\s`)

// ResolveEntryPoint returns the index of the video the user should resume at.
// Videos must be sorted by position. The first video that is not watched, or
// whose required quiz is not passed, is the entry point. A fully completed
// course resumes at the last video.
func ResolveEntryPoint(videos []courseModels.Video, progress map[uint]courseModels.VideoProgress) int {
	if len(videos) == 0 {
		return 0
	}

	for i, video := range videos {
		record, ok := progress[video.ID]
		if !ok || !record.Completed {
			return i
		}
		if video.RequiresQuiz && !record.QuizPassed {
			return i
		}
	}

	// Everything done, resume at the last video
	return len(videos) - 1
}

// CanAccess reports whether the video at index is unlocked for the user.
// Index 0 is always accessible; any later video requires the previous one to
// be completed and, if it carries a quiz, passed. Out-of-range indexes are
// simply inaccessible.
func CanAccess(index int, videos []courseModels.Video, progress map[uint]courseModels.VideoProgress) bool {
	if index < 0 || index >= len(videos) {
		return false
	}
	if index == 0 {
		return true
	}

	prev := videos[index-1]
	record, ok := progress[prev.ID]
	if !ok || !record.Completed {
		return false
	}
	if prev.RequiresQuiz && !record.QuizPassed {
		return false
	}
	return true
}

// QuizResult is the outcome of scoring one submission.
type QuizResult struct {
	Passed       bool          `json:"passed"`
	CorrectCount int           `json:"correct_count"`
	TotalCount   int           `json:"total_count"`
	Correct      map[uint]bool `json:"correct"`
}

// OptionLabel resolves the answer label for an option. Explicit labels win;
// legacy option text like "B) Aspirin" yields its letter prefix; otherwise
// the option's position maps to A-D.
func OptionLabel(option courseModels.QuestionOption, index int) (string, error) {
	if option.Label != "" {
		return option.Label, nil
	}
	if m := labelPrefixRe.FindStringSubmatch(option.OptionText); m != nil {
		return m[1], nil
	}
	if index >= len(positionalLabels) {
		return "", &ValidationError{Message: "question has more than 4 options without explicit labels"}
	}
	return positionalLabels[index], nil
}

// QuestionLabels returns the resolved label set for a question's options, in
// option order. Duplicate labels within one question are rejected.
func QuestionLabels(question courseModels.Question) ([]string, error) {
	labels := make([]string, 0, len(question.Options))
	seen := make(map[string]bool)
	for i, option := range question.Options {
		label, err := OptionLabel(option, i)
		if err != nil {
			return nil, err
		}
		if seen[label] {
			return nil, &ValidationError{Message: "duplicate option label '" + label + "' in question"}
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels, nil
}

// EvaluateQuiz scores a submission against the full question set of a video.
// Every question must be answered or the submission is rejected without
// scoring. Labels are compared case-sensitively. The attempt passes only if
// every question is answered correctly.
func EvaluateQuiz(questions []courseModels.Question, answers map[uint]string) (*QuizResult, error) {
	if len(questions) == 0 {
		return nil, &ValidationError{Message: "video has no quiz questions"}
	}

	// Reject incomplete submissions before touching any state
	for _, question := range questions {
		if _, ok := answers[question.ID]; !ok {
			return nil, ErrIncompleteSubmission
		}
	}

	result := &QuizResult{
		TotalCount: len(questions),
		Correct:    make(map[uint]bool, len(questions)),
	}

	for _, question := range questions {
		// Resolving labels also guards the legacy >4 option fallback
		if _, err := QuestionLabels(question); err != nil {
			return nil, err
		}

		correct := answers[question.ID] == question.CorrectLabel
		result.Correct[question.ID] = correct
		if correct {
			result.CorrectCount++
		}
	}

	result.Passed = result.CorrectCount == result.TotalCount
	return result, nil
}
