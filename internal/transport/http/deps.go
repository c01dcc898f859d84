package http

import (
	"github.com/student-bubble/internal/application/assignment"
	"github.com/student-bubble/internal/application/auth"
	"github.com/student-bubble/internal/application/note"
	"github.com/student-bubble/internal/application/todo"
	jwtinfra "github.com/student-bubble/internal/infrastructure/jwt"
)

// Deps holds the application services and token provider the router serves.
type Deps struct {
	AuthService       auth.Service
	NoteService       note.Service
	AssignmentService assignment.Service
	TodoService       todo.Service
	JWTProvider       *jwtinfra.Provider
}
