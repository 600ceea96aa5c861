package domain

// Group labels one side of the university town comparison.
type Group string

const (
	GroupUniversity    Group = "university town"
	GroupNonUniversity Group = "non-university town"
)

// TestResult is the outcome of the university town hypothesis test.
type TestResult struct {
	Different          bool    `json:"different"`
	PValue             float64 `json:"p_value"`
	Better             Group   `json:"better"`
	TStatistic         float64 `json:"t_statistic"`
	DegreesOfFreedom   float64 `json:"degrees_of_freedom"`
	UniversityMean     float64 `json:"university_mean"`
	NonUniversityMean  float64 `json:"non_university_mean"`
	UniversityCount    int     `json:"university_count"`
	NonUniversityCount int     `json:"non_university_count"`
	Variance           string  `json:"variance"`
}
