package moderation

import "coursereviews/internal/domain"

type ReportRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}

type ResolveRequest struct {
	Token   string `json:"token"`
	ID      string `json:"id" validate:"required,max=64"`
	Outcome string `json:"outcome" validate:"required,oneof=keep hide"`
}

const (
	EventReviewReported = "review_reported"
	EventReportResolved = "report_resolved"
)

// Event is pushed to moderation subscribers once a mutation is stored.
type Event struct {
	Type     string             `json:"type"`
	ReviewID string             `json:"review_id"`
	ClassID  string             `json:"class_id"`
	State    domain.ReviewState `json:"state"`
}
