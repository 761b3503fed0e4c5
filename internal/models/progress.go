package models

// StatsPeriod selects the lookback window for progress statistics.
type StatsPeriod string

const (
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
	PeriodYear  StatsPeriod = "year"
)

// ProgressStats aggregates study activity over a period.
type ProgressStats struct {
	TotalStudySessions int            `json:"total_study_sessions"`
	TotalStudyMinutes  int            `json:"total_study_minutes"`
	CompletedQuizzes   int            `json:"completed_quizzes"`
	AverageQuizScore   float64        `json:"average_quiz_score"`
	SessionsBySubject  map[string]int `json:"study_sessions_by_subject"`
}

// UserStats summarises a user's lifetime activity.
type UserStats struct {
	TotalStudySessions   int `json:"total_study_sessions"`
	CompletedQuizzes     int `json:"completed_quizzes"`
	TotalStudyMinutes    int `json:"total_study_minutes"`
	FlashcardSetsCreated int `json:"flashcard_sets_created"`
}

// Dashboard bundles a user's recent activity.
type Dashboard struct {
	RecentSessions    []StudySession   `json:"recent_sessions"`
	RecentSubmissions []QuizSubmission `json:"recent_submissions"`
	UpcomingSessions  []StudySession   `json:"upcoming_sessions"`
}
