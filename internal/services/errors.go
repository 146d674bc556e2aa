package services

import "github.com/ahmetcoskunkizilkaya/spotmap-backend/internal/apperr"

var (
	ErrSpotNotFound         = apperr.NotFound("spot not found")
	ErrReviewNotFound       = apperr.NotFound("review not found")
	ErrTagNotFound          = apperr.NotFound("tag not found")
	ErrUserNotFound         = apperr.NotFound("user not found")
	ErrNotSpotCreator       = apperr.Forbidden("only the creator can delete this spot")
	ErrDeletionWindowClosed = apperr.Forbidden("spots can only be deleted within 24 hours of creation")
	ErrSelfReview           = apperr.Forbidden("you cannot review your own spot")
	ErrDuplicateReview      = apperr.Forbidden("you have already reviewed this spot")
	ErrAlreadyReported      = apperr.Forbidden("you have already reported this spot")
	ErrTitleTaken           = apperr.Conflict("a spot with this title already exists")
	ErrTagExists            = apperr.Conflict("tag already exists")
	ErrSpotBusy             = apperr.Conflict("spot is being modified, try again")
	ErrInvalidRating        = apperr.Validation("rating must be between 1 and 5")
	ErrInvalidTagLabel      = apperr.Validation("tag label is required")

	ErrEmailTaken         = apperr.Conflict("email already registered")
	ErrUsernameTaken      = apperr.Conflict("username already taken")
	ErrInvalidCredentials = apperr.Forbidden("invalid email or password")
	ErrInvalidToken       = apperr.Forbidden("invalid or expired refresh token")
)
