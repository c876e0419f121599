package models

import "time"

type CustomerFeedback struct {
	ID           uint      `gorm:"primaryKey"`
	ItemName     string    `gorm:"size:100;index"`
	Rating       int       `gorm:"not null"`
	Comment      string    `gorm:"size:1000"`
	FeedbackDate time.Time `gorm:"index"`
}

func (CustomerFeedback) TableName() string {
	return "customer_feedback"
}
