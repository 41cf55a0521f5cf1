// Package fixture holds the reference catalogue used by the seed tool and tests:
// three classes, four reviews, two subjects and one admin student.
package fixture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"coursereviews/internal/domain"
)

const (
	ClassCS2110   = "oH37S3mJ4eAsktypy"
	ClassCS2112   = "oH37S3mJ4eAsdsdpy"
	ClassMath3110 = "fhgweiufhwu23"

	ReviewCS2110A    = "4Y8k7DnX3PLNdwRPr"
	ReviewCS2110B    = "4Y8k7DnX3PLNdwRPq"
	ReviewCS2112     = "4Y8k7rthjX3PLNdwRPq"
	ReviewMath3110   = "4Y8k7rthjX3PLNdwjhgfuytRPq"
	AdminNetID       = "dti1"
	AdminEmail       = "dti1@cornell.edu"
	AdminStudentID   = "Irrelevant2"
	semestersOffered = "FA14,SP15,SU15,FA15,SP16,SU16,FA16,SP17,SU17,FA17,SP18,FA18,SU18,SP19,FA19,SU19"
)

func ptr(v float64) *float64 { return &v }

func semesters() []string {
	return strings.Split(semestersOffered, ",")
}

func Classes() []domain.Class {
	return []domain.Class{
		{
			ID:    ClassCS2110,
			Sub:   "cs",
			Num:   "2110",
			Title: "Object-Oriented Programming and Data Structures",
			Full:  "cs 2110 object-oriented programming and data structures",
			Professors: []string{"David Gries", "Douglas James", "Siddhartha Chaudhuri",
				"Graeme Bailey", "John Foster", "Ross Tate", "Michael George",
				"Eleanor Birrell", "Adrian Sampson", "Natacha Crooks", "Anne Bracy",
				"Michael Clarkson"},
			CrossList:  []string{"q75SxmqkTFEfaJwZ3"},
			Semesters:  semesters(),
			Difficulty: ptr(2.9),
			Workload:   ptr(3),
		},
		{
			ID:         ClassCS2112,
			Sub:        "cs",
			Num:        "2112",
			Title:      "Honors Object-Oriented Programming and Data Structures",
			Full:       "cs 2112 Honors object-oriented programming and data structures",
			Professors: []string{"Andrew Myers"},
			CrossList:  []string{},
			Semesters:  semesters(),
			Difficulty: ptr(5.0),
			Workload:   ptr(5.0),
		},
		{
			ID:         ClassMath3110,
			Sub:        "math",
			Num:        "3110",
			Title:      "Intro to real analysis",
			Full:       "math 3110 Intro to real analysis",
			Professors: []string{"Saloff-Coste"},
			CrossList:  []string{},
			Semesters:  semesters(),
			Difficulty: ptr(3.9),
			Workload:   ptr(3.5),
		},
	}
}

// Reviews returns the four visible fixture reviews dated one minute apart from now.
func Reviews(now time.Time) []domain.Review {
	rv := func(id, classID, text string, difficulty, quality int, offset time.Duration) domain.Review {
		return domain.Review{
			ID:         id,
			ClassID:    classID,
			Text:       text,
			Difficulty: difficulty,
			Quality:    quality,
			Grade:      6,
			Date:       now.Add(offset).UTC(),
			Visible:    true,
		}
	}
	return []domain.Review{
		rv(ReviewCS2110A, ClassCS2110, "review text for cs 2110", 1, 4, 0),
		rv(ReviewCS2110B, ClassCS2110, "review text for cs 2110 number 2", 1, 5, time.Minute),
		rv(ReviewCS2112, ClassCS2112, "review 1 for cs 2112", 5, 5, 2*time.Minute),
		rv(ReviewMath3110, ClassMath3110, "review 1 for math 3110", 5, 5, 3*time.Minute),
	}
}

func Subjects() []domain.Subject {
	return []domain.Subject{
		{ID: "cs57687980g", Short: "cs", Full: "Computer Science"},
		{ID: "math234jhgheyr389", Short: "math", Full: "Mathematics"},
	}
}

func Students() []domain.Student {
	return []domain.Student{
		{
			ID:        AdminStudentID,
			FirstName: "Dan Thomas",
			LastName:  "Ivy",
			NetID:     AdminNetID,
			Token:     "fakeTokenDti1",
			Privilege: domain.PrivilegeAdmin,
		},
	}
}

// Load inserts the whole fixture in one transaction.
func Load(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		classes := Classes()
		if err := tx.Create(&classes).Error; err != nil {
			return fmt.Errorf("seed classes: %w", err)
		}
		reviews := Reviews(time.Now())
		if err := tx.Create(&reviews).Error; err != nil {
			return fmt.Errorf("seed reviews: %w", err)
		}
		subjects := Subjects()
		if err := tx.Create(&subjects).Error; err != nil {
			return fmt.Errorf("seed subjects: %w", err)
		}
		students := Students()
		if err := tx.Create(&students).Error; err != nil {
			return fmt.Errorf("seed students: %w", err)
		}
		return nil
	})
}
