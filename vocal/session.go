package vocal

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/clairvox/vocalis/vocal/config"
)

// TestDefinition describes one exercise in the diagnostic battery
type TestDefinition struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	DurationGuide int    `json:"duration_guide"` // seconds
	NeedsTarget   bool   `json:"needs_target"`   // sustained-note tests score accuracy against the part's target
}

// TestBattery is the standard six-exercise diagnostic sequence. T1 and T6
// record the same sustained reference note before and after the coaching
// block so the two can be compared.
var TestBattery = []TestDefinition{
	{ID: "T1", Name: "Sustained Note (Before)", Description: "Hold the part's reference note for 5 seconds", DurationGuide: 5, NeedsTarget: true},
	{ID: "T2", Name: "Messa di Voce", Description: "Soft to loud and back on one note (6-8 seconds)", DurationGuide: 8},
	{ID: "T3", Name: "Vowel Transition", Description: "Ah-eh-ee or ah-oh-oo on one pitch", DurationGuide: 8},
	{ID: "T4", Name: "Scale (Passaggio)", Description: "Short scale through the passaggio region", DurationGuide: 10},
	{ID: "T5", Name: "Choir Phrase", Description: "Short choral phrase (10-15 seconds)", DurationGuide: 15},
	{ID: "T6", Name: "Sustained Note (After)", Description: "Repeat the T1 reference note after correction", DurationGuide: 5, NeedsTarget: true},
}

// TestByID looks up a battery exercise
func TestByID(id string) (TestDefinition, error) {
	for _, def := range TestBattery {
		if def.ID == id {
			return def, nil
		}
	}
	return TestDefinition{}, fmt.Errorf("unknown test id %q", id)
}

// TestResult captures everything one analyzed recording produced: the
// cleaned time series for plotting, the scalar metrics, and the
// diagnostic statements.
type TestResult struct {
	TestID   string `json:"test_id"`
	TestName string `json:"test_name"`

	AudioPath string `json:"audio_path,omitempty"`

	Series  *FrameSeries   `json:"series,omitempty"`
	Metrics MetricsResult  `json:"metrics"`
	Tags    []DiagnosisTag `json:"tags"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Session collects one student's diagnostic run. It replaces the mutable
// web-session object of earlier tooling with a plain value threaded
// through calls; the analysis core itself keeps no state between calls.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	StudentName string      `json:"student_name"`
	Part        config.Part `json:"part"`
	CoachName   string      `json:"coach_name,omitempty"`

	Results map[string]*TestResult `json:"results"`

	CoachComment      string `json:"coach_comment,omitempty"`
	RoutineAssignment string `json:"routine_assignment,omitempty"`
}

// NewSession creates a session for one student
func NewSession(studentName, coachName string, part config.Part) *Session {
	return &Session{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		StudentName: studentName,
		CoachName:   coachName,
		Part:        part,
		Results:     make(map[string]*TestResult),
	}
}

// AddResult stores a result, replacing any earlier take of the same test
func (s *Session) AddResult(result *TestResult) {
	s.Results[result.TestID] = result
}

// GetResult returns the result for a test id, or nil
func (s *Session) GetResult(testID string) *TestResult {
	return s.Results[testID]
}

// RetestDurationToleranceSec bounds how far the after-recording (T6) may
// differ in length from the before-recording (T1) before the comparison
// is flagged as weak.
const RetestDurationToleranceSec = 2.0

// CheckRetestComparability compares the durations of the before/after
// sustained-note takes. comparable is false when either take is missing
// or the durations differ by more than the tolerance; delta is the
// absolute difference in seconds when both takes exist.
func (s *Session) CheckRetestComparability() (delta float64, comparable bool) {
	before := s.GetResult("T1")
	after := s.GetResult("T6")
	if before == nil || after == nil || before.Series == nil || after.Series == nil {
		return 0, false
	}

	delta = math.Abs(after.Series.Duration() - before.Series.Duration())
	return delta, delta <= RetestDurationToleranceSec
}
