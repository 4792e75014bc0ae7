package lessonapi

// GradeKind tags a GradingResult.
type GradeKind int

const (
	GradeFailed GradeKind = iota
	GradeCorrect
	GradeIncorrect
)

func (k GradeKind) String() string {
	switch k {
	case GradeCorrect:
		return "correct"
	case GradeIncorrect:
		return "incorrect"
	default:
		return "failed"
	}
}

// GradingResult is the outcome of one answer submission.
//
// Correct and Incorrect results may carry an explanation, a hint and the
// accepted answers. A Failed result carries Err, whose dynamic type is one
// of *GradingError, *ProtocolError, *TransportError or *TimeoutError.
type GradingResult struct {
	Kind           GradeKind
	Explanation    string
	Hint           string
	CorrectAnswers []string
	Err            error
}

// Failed wraps err as a failed grading result.
func Failed(err error) GradingResult {
	return GradingResult{Kind: GradeFailed, Err: err}
}

// CompletionResult is the server's answer to a chapter completion request.
type CompletionResult struct {
	Success          bool
	AlreadyCompleted bool
	ExperienceAdded  int
	LevelUp          bool
	OldLevel         int // 0 when the server did not report it
	NewLevel         int
	Message          string
}

// gradingResponse is the JSON body of the grading endpoint.
type gradingResponse struct {
	Correct        *bool    `json:"correct"`
	Explanation    *string  `json:"explanation"`
	Hint           *string  `json:"hint"`
	CorrectAnswers []string `json:"correct_answers"`
	Error          *string  `json:"error"`
}

// completionResponse is the JSON body of the completion endpoint.
// Some servers report experience as experience_gained.
type completionResponse struct {
	Success          bool    `json:"success"`
	AlreadyCompleted bool    `json:"already_completed"`
	ExperienceAdded  *int    `json:"experience_added"`
	ExperienceGained *int    `json:"experience_gained"`
	LevelUp          bool    `json:"level_up"`
	OldLevel         *int    `json:"old_level"`
	NewLevel         *int    `json:"new_level"`
	Message          *string `json:"message"`
}

func (r gradingResponse) result() GradingResult {
	res := GradingResult{
		Explanation:    deref(r.Explanation),
		Hint:           deref(r.Hint),
		CorrectAnswers: r.CorrectAnswers,
	}
	if *r.Correct {
		res.Kind = GradeCorrect
	} else {
		res.Kind = GradeIncorrect
	}
	return res
}

func (r completionResponse) result() CompletionResult {
	res := CompletionResult{
		Success:          r.Success,
		AlreadyCompleted: r.AlreadyCompleted,
		LevelUp:          r.LevelUp,
		Message:          deref(r.Message),
	}
	switch {
	case r.ExperienceAdded != nil:
		res.ExperienceAdded = *r.ExperienceAdded
	case r.ExperienceGained != nil:
		res.ExperienceAdded = *r.ExperienceGained
	}
	if res.AlreadyCompleted || res.ExperienceAdded < 0 {
		res.ExperienceAdded = 0
	}
	// Some servers report only the new level; OldLevel stays 0 then.
	if r.LevelUp && r.NewLevel != nil {
		res.NewLevel = *r.NewLevel
		if r.OldLevel != nil {
			res.OldLevel = *r.OldLevel
		}
	} else {
		res.LevelUp = false
	}
	return res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
