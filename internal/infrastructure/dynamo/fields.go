package dynamo

// DynamoDB attribute names used in keys and expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID       = "userId"
	fieldEmail        = "email"
	fieldNoteID       = "noteId"
	fieldAssignmentID = "assignmentId"
	fieldTodoID       = "todoId"
	fieldCompleted    = "completed"
	fieldIdentity     = "identity"
	fieldCode         = "code"
	fieldTTL          = "ttl"

	indexEmail  = "email-index"
	indexUserID = "userId-index"
)
