package progression

import (
	"testing"

	courseModels "medlearn/models/course"

	"github.com/stretchr/testify/assert"
)

func TestCurrentState(t *testing.T) {
	videos := threeVideoCourse()

	testCases := []struct {
		name     string
		progress map[uint]courseModels.VideoProgress
		expected State
	}{
		{
			name:     "fresh user is watching the first video",
			progress: map[uint]courseModels.VideoProgress{},
			expected: State{Kind: StateWatchingVideo, Index: 0},
		},
		{
			name: "watched gated video without a pass is taking the quiz",
			progress: map[uint]courseModels.VideoProgress{
				10: {VideoID: 10, Completed: true},
				11: {VideoID: 11, Completed: true},
			},
			expected: State{Kind: StateTakingQuiz, Index: 1},
		},
		{
			name: "everything done is course complete on the last index",
			progress: map[uint]courseModels.VideoProgress{
				10: {VideoID: 10, Completed: true},
				11: {VideoID: 11, Completed: true, QuizPassed: true},
				12: {VideoID: 12, Completed: true},
			},
			expected: State{Kind: StateCourseComplete, Index: 2},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CurrentState(videos, tc.progress))
		})
	}
}

func TestStateTransitions(t *testing.T) {
	videos := threeVideoCourse()

	t.Run("finishing an ungated video advances", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{
			10: {VideoID: 10, Completed: true},
		}
		state := State{Kind: StateWatchingVideo, Index: 0}
		assert.Equal(t, State{Kind: StateWatchingVideo, Index: 1}, state.OnVideoEnded(videos, progress))
	})

	t.Run("finishing a gated video enters the quiz", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{
			11: {VideoID: 11, Completed: true},
		}
		state := State{Kind: StateWatchingVideo, Index: 1}
		assert.Equal(t, State{Kind: StateTakingQuiz, Index: 1}, state.OnVideoEnded(videos, progress))
	})

	t.Run("an already passed quiz does not re-gate", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{
			11: {VideoID: 11, Completed: true, QuizPassed: true},
		}
		state := State{Kind: StateWatchingVideo, Index: 1}
		assert.Equal(t, State{Kind: StateWatchingVideo, Index: 2}, state.OnVideoEnded(videos, progress))
	})

	t.Run("failing the quiz stays on the quiz", func(t *testing.T) {
		state := State{Kind: StateTakingQuiz, Index: 1}
		assert.Equal(t, state, state.OnQuizResult(false, videos))
	})

	t.Run("passing the quiz advances", func(t *testing.T) {
		state := State{Kind: StateTakingQuiz, Index: 1}
		assert.Equal(t, State{Kind: StateWatchingVideo, Index: 2}, state.OnQuizResult(true, videos))
	})

	t.Run("finishing the last video completes the course", func(t *testing.T) {
		progress := map[uint]courseModels.VideoProgress{
			12: {VideoID: 12, Completed: true},
		}
		state := State{Kind: StateWatchingVideo, Index: 2}
		assert.Equal(t, State{Kind: StateCourseComplete, Index: 2}, state.OnVideoEnded(videos, progress))
	})

	t.Run("transitions from foreign states are no-ops", func(t *testing.T) {
		complete := State{Kind: StateCourseComplete, Index: 2}
		assert.Equal(t, complete, complete.OnVideoEnded(videos, map[uint]courseModels.VideoProgress{}))
		assert.Equal(t, complete, complete.OnQuizResult(true, videos))

		watching := State{Kind: StateWatchingVideo, Index: 0}
		assert.Equal(t, watching, watching.OnQuizResult(true, videos))
	})
}
