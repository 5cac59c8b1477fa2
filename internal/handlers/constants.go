package handlers

// Client-facing error messages
const (
	ErrInvalidJSON           = "Invalid JSON body"
	ErrInternalServerError   = "Internal server error"
	ErrUserNotFoundMsg       = "A User with that name does not exist!"
	ErrUserExistsMsg         = "A User with that name already exists!"
	ErrGameNotFoundMsg       = "Game not found!"
	ErrInvalidRangeMsg       = "Maximum must be greater than minimum!"
	ErrInvalidBudgetMsg      = "Attempts must be greater than zero!"
	ErrNoWordMsg             = "No word has a length in the requested range."
	ErrConcurrentUpdateMsg   = "The game changed while your move was processed, please resubmit it."
	ErrServiceUnavailableMsg = "Service unavailable"
)

const maxBodyBytes = 1 << 20
