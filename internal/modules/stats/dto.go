package stats

import (
	"encoding/json"
	"fmt"
)

// KeyCount is one group of a counting aggregation.
type KeyCount struct {
	ID    string `json:"_id"`
	Total int64  `json:"total"`
}

// SubjectCount serializes as a ["Full Name", count] pair.
type SubjectCount struct {
	Name  string
	Count int64
}

func (s SubjectCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Name, s.Count})
}

func (s *SubjectCount) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("subject count: want 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &s.Name); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &s.Count)
}

type TopSubjectsRequest struct {
	Token string `json:"token"`
	Limit int    `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

type ClassReviewsRequest struct {
	CourseID string `json:"courseId" validate:"required,max=64"`
}
