package domain

import "time"

// Note is either a text note (Content set) or an uploaded file (FileKey/FileURL set).
type Note struct {
	NoteID    string    `json:"noteId" dynamodbav:"noteId"`
	UserID    string    `json:"userId" dynamodbav:"userId"`
	Title     string    `json:"title" dynamodbav:"title"`
	Content   *string   `json:"content" dynamodbav:"content,omitempty"`
	FileKey   *string   `json:"-" dynamodbav:"fileKey,omitempty"`
	FileURL   *string   `json:"fileUrl" dynamodbav:"fileUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

type SaveNoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Upload describes an object in the uploads bucket.
type Upload struct {
	Key          string    `json:"Key"`
	Size         int64     `json:"Size"`
	LastModified time.Time `json:"LastModified"`
	URL          string    `json:"url,omitempty"`
}
