package domain

import "time"

const AssignmentStatusPending = "Pending"

type Assignment struct {
	AssignmentID string    `json:"assignmentId" dynamodbav:"assignmentId"`
	UserID       string    `json:"-" dynamodbav:"userId"`
	Course       string    `json:"course" dynamodbav:"course"`
	Title        string    `json:"title" dynamodbav:"title"`
	DueDate      string    `json:"dueDate" dynamodbav:"dueDate"`
	ReminderTime string    `json:"reminderTime" dynamodbav:"reminderTime"`
	Status       string    `json:"status" dynamodbav:"status"`
	CreatedAt    time.Time `json:"-" dynamodbav:"createdAt"`
}

type CreateAssignmentRequest struct {
	Course       string `json:"course" validate:"required"`
	Title        string `json:"title" validate:"required"`
	DueDate      string `json:"dueDate" validate:"required"`
	ReminderTime string `json:"reminderTime"` // RFC3339 or browser datetime-local; empty for none
}
