package recommend

// Strategy names, also used as metric labels and in RECOMMENDED edges
const (
	StrategyByDifficulty         = "by_difficulty"
	StrategyBySimilarUsers       = "by_similar_users"
	StrategyByErrorsAndInterests = "by_errors_and_interests"
	StrategyByInterests          = "by_interests"
	StrategyMultiHop             = "multi_hop"
	StrategyCourses              = "courses"
)

// DifficultyCandidate is an exercise that evaluates one of the learner's weak skills
type DifficultyCandidate struct {
	ExerciseID         string   `json:"exercise_id"`
	SkillID            string   `json:"skill_id"`
	ErrorScore         *float64 `json:"error_score"`
	ExerciseDifficulty *float64 `json:"exercise_difficulty"`
}

// SimilarUserCandidate is an exercise that similar learners did well on
type SimilarUserCandidate struct {
	ExerciseID  string   `json:"exercise_id"`
	SkillID     string   `json:"skill_id"`
	Performance *float64 `json:"performance"`
	Similarity  *float64 `json:"similarity"`
}

// ErrorInterestCandidate is an exercise tagged with one of the learner's
// frequent error types. InterestWeight is nil when the exercise shares no
// interest with the learner.
type ErrorInterestCandidate struct {
	ExerciseID     string   `json:"exercise_id"`
	ErrorID        string   `json:"error_id"`
	Frequency      *float64 `json:"frequency"`
	InterestWeight *float64 `json:"interest_weight"`
}

// InterestCandidate is an exercise on one of the learner's interests that
// also trains a skill they need to reinforce
type InterestCandidate struct {
	ExerciseID     string   `json:"exercise_id"`
	InterestID     string   `json:"interest_id"`
	InterestWeight *float64 `json:"interest_weight"`
	ErrorScore     *float64 `json:"error_score"`
}

// MultiHopCandidate is an exercise reached through learners who did well on
// the caller's weak skills
type MultiHopCandidate struct {
	ExerciseID      string   `json:"exercise_id"`
	SourceUsers     []string `json:"source_users"`
	RelatedSkill    string   `json:"related_skill"`
	AvgCorrectRatio *float64 `json:"avg_correct_ratio"`
}

// CourseCandidate is a course completed by learners who share a course with the caller
type CourseCandidate struct {
	CourseID string  `json:"course_id"`
	Score    float64 `json:"score"`
}

// Results holds the combined strategies. Overlapping exercises are not reconciled.
type Results struct {
	ByDifficulty         []DifficultyCandidate    `json:"by_difficulty"`
	BySimilarUsers       []SimilarUserCandidate   `json:"by_similar_users"`
	ByErrorsAndInterests []ErrorInterestCandidate `json:"by_errors_and_interests"`
}
