package progression

import courseModels "medlearn/models/course"

// StateKind identifies where the user is in the course flow.
type StateKind string

const (
	StateWatchingVideo  StateKind = "WATCHING_VIDEO"
	StateTakingQuiz     StateKind = "TAKING_QUIZ"
	StateCourseComplete StateKind = "COURSE_COMPLETE"
)

// State is the derived position of a user inside one course. It is computed
// from persisted progress records on every request; nothing is held between
// calls.
type State struct {
	Kind  StateKind `json:"kind"`
	Index int       `json:"index"`
}

// CurrentState derives the user's state from their progress records. Videos
// must be sorted by position.
func CurrentState(videos []courseModels.Video, progress map[uint]courseModels.VideoProgress) State {
	if len(videos) == 0 {
		return State{Kind: StateCourseComplete, Index: 0}
	}

	index := ResolveEntryPoint(videos, progress)
	video := videos[index]
	record, ok := progress[video.ID]

	if ok && record.Completed {
		if video.RequiresQuiz && !record.QuizPassed {
			return State{Kind: StateTakingQuiz, Index: index}
		}
		// Entry point on a completed video means the whole course is done
		return State{Kind: StateCourseComplete, Index: index}
	}

	return State{Kind: StateWatchingVideo, Index: index}
}

// OnVideoEnded transitions after the video at the state's index finished
// playing. A pending quiz keeps the user on the same index; otherwise the
// user advances, or completes the course on the last video.
func (s State) OnVideoEnded(videos []courseModels.Video, progress map[uint]courseModels.VideoProgress) State {
	if s.Kind != StateWatchingVideo {
		return s
	}

	video := videos[s.Index]
	record := progress[video.ID]
	if video.RequiresQuiz && !record.QuizPassed {
		return State{Kind: StateTakingQuiz, Index: s.Index}
	}
	return s.advance(videos)
}

// OnQuizResult transitions after a quiz submission was scored. A failed
// attempt stays on the quiz with a clean slate; retries are unlimited.
func (s State) OnQuizResult(passed bool, videos []courseModels.Video) State {
	if s.Kind != StateTakingQuiz {
		return s
	}
	if !passed {
		return s
	}
	return s.advance(videos)
}

func (s State) advance(videos []courseModels.Video) State {
	if s.Index >= len(videos)-1 {
		return State{Kind: StateCourseComplete, Index: s.Index}
	}
	return State{Kind: StateWatchingVideo, Index: s.Index + 1}
}
