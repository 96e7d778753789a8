package apperrors

var (
	ErrRecipientMissing     = Validation("Recipient information is missing")
	ErrEmptyMessage         = Validation("message must contain text or media")
	ErrMissingConversation  = Validation("conversation id is required")
	ErrMissingUser          = Validation("user id is required")
	ErrConversationNotFound = NotFound("conversation not found")
	ErrMessageNotFound      = NotFound("message not found")
	ErrNotParticipant       = NotAuthorized("user is not a participant in this conversation")
	ErrNoSession            = Auth("no valid session")
	ErrInvalidCredentials   = Auth("invalid email or password")
	ErrEmailTaken           = Conflict("email is already registered")
)
