package domain

import (
	"errors"
	"time"
)

// ReviewState is derived from the persisted visible/reported flags:
//
//	Visible:  visible=true,  reported=false
//	Reported: visible=false, reported=true
//	Hidden:   visible=false, reported=false
type ReviewState string

const (
	StateVisible  ReviewState = "visible"
	StateReported ReviewState = "reported"
	StateHidden   ReviewState = "hidden"
)

type Outcome string

const (
	OutcomeKeep Outcome = "keep"
	OutcomeHide Outcome = "hide"
)

var ErrInvalidTransition = errors.New("invalid review state transition")

type Review struct {
	ID         string    `json:"_id" gorm:"column:id;primaryKey;size:64"`
	ClassID    string    `json:"class" gorm:"column:class_id;size:64;index"`
	Text       string    `json:"text" gorm:"column:text"`
	Quality    int       `json:"quality" gorm:"column:quality"`
	Difficulty int       `json:"difficulty" gorm:"column:difficulty"`
	Grade      int       `json:"grade" gorm:"column:grade"`
	Date       time.Time `json:"date" gorm:"column:date;index"`
	Attendance bool      `json:"atten" gorm:"column:atten"`
	Visible    bool      `json:"visible" gorm:"column:visible;index"`
	Reported   bool      `json:"reported" gorm:"column:reported;index"`
	Likes      int       `json:"likes" gorm:"column:likes"`
}

func (Review) TableName() string { return "reviews" }

func (r *Review) State() ReviewState {
	switch {
	case r.Reported:
		return StateReported
	case r.Visible:
		return StateVisible
	default:
		return StateHidden
	}
}

// Flags returns the persisted representation of a state.
func (s ReviewState) Flags() (visible, reported bool) {
	switch s {
	case StateVisible:
		return true, false
	case StateReported:
		return false, true
	default:
		return false, false
	}
}

// Resolve returns the state a reported review moves to for the given outcome.
func (s ReviewState) Resolve(o Outcome) (ReviewState, error) {
	if s != StateReported {
		return s, ErrInvalidTransition
	}
	switch o {
	case OutcomeKeep:
		return StateVisible, nil
	case OutcomeHide:
		return StateHidden, nil
	default:
		return s, ErrInvalidTransition
	}
}
