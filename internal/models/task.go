package models

import (
	"time"

	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// Task is linked to its owner only through OwnerEmail, a copy of the owning
// account's email at creation time.
type Task struct {
	ID          string    `gorm:"primarykey;type:varchar(36)" bson:"_id" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" bson:"title" json:"title"`
	Description string    `gorm:"type:text;not null" bson:"description" json:"description"`
	DueDate     time.Time `gorm:"not null" bson:"dueDate" json:"dueDate"`
	Priority    Priority  `gorm:"type:varchar(10);not null" bson:"priority" json:"priority"`
	Category    string    `gorm:"type:varchar(255)" bson:"category" json:"category"`
	Location    string    `gorm:"type:varchar(255)" bson:"location" json:"location"`
	Reminder    string    `gorm:"type:varchar(255)" bson:"reminder" json:"reminder"`
	Tag         string    `gorm:"type:varchar(255)" bson:"tag" json:"tag"`
	AssignTo    string    `gorm:"type:varchar(255);index" bson:"assignTo" json:"assignTo"`
	OwnerEmail  string    `gorm:"type:varchar(255);index;not null" bson:"ownerEmail" json:"ownerEmail"`
	Complete    bool      `gorm:"not null;default:false" bson:"complete" json:"complete"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}
