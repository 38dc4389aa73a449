package service

import "github.com/emirhanunsal/MovieSuggest/internal/errs"

// Errores centinela de los services. Los handlers los mapean a status
// codes vía errs.KindOf; los codes viajan en el body de error.
var (
	ErrUserExists         = errs.Conflict("user_exists", "UserID already registered")
	ErrInvalidCredentials = errs.Validation("invalid_credentials", "invalid UserID or password")
	ErrUserNotFound       = errs.NotFound("user_not_found", "user does not exist")

	ErrAlreadyPartnered = errs.Conflict("already_partnered", "user already has an active partner")
	ErrDuplicateRequest = errs.Conflict("duplicate_request", "a pending partner request already exists")
	ErrRequestNotFound  = errs.NotFound("request_not_found", "no pending partner request for that pair")
	ErrNoActiveLink     = errs.Conflict("no_active_link", "user has no active partner")
	ErrSelfRequest      = errs.Validation("self_request", "cannot send a partner request to yourself")

	ErrPreferencesNotFound = errs.NotFound("preferences_not_found", "no preferences found for user")
	ErrNoUpdates           = errs.Validation("no_updates", "no fields to update")

	ErrNotPartnered          = errs.Conflict("not_partnered", "users are not active partners")
	ErrNoPreferences         = errs.Validation("no_preferences", "no shared preferences found to generate recommendations")
	ErrGenerationUnavailable = errs.Upstream("generation_unavailable", "failed to get a valid response from the generator after retries")

	ErrNotificationNotFound = errs.NotFound("notification_not_found", "notification does not exist")
	ErrMovieTitleRequired   = errs.Validation("title_required", "movie title is required")
)
