package domain

import "time"

type Todo struct {
	TodoID     string    `json:"todoId" dynamodbav:"todoId"`
	UserID     string    `json:"-" dynamodbav:"userId"`
	Name       string    `json:"name" dynamodbav:"name"`
	DueDate    string    `json:"dueDate" dynamodbav:"dueDate"`
	Importance string    `json:"importance" dynamodbav:"importance"`
	Completed  bool      `json:"completed" dynamodbav:"completed"`
	CreatedAt  time.Time `json:"-" dynamodbav:"createdAt"`
}

type CreateTodoRequest struct {
	Name       string `json:"name" validate:"required"`
	DueDate    string `json:"dueDate"`
	Importance string `json:"importance"`
}

type UpdateTodoRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}
