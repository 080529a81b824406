package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrNoCandidate indicates the ranker found no sentence above the
	// minimum score threshold
	ErrNoCandidate = errors.New("no candidate above threshold")

	// ErrSpanNotFound indicates the locator exhausted all matching
	// strategies without finding the text on the page
	ErrSpanNotFound = errors.New("span not found on page")

	// ErrTextLayerUnavailable indicates the page's fragment geometry never
	// became available within the retry budget
	ErrTextLayerUnavailable = errors.New("text layer unavailable")

	// ErrRenderFailed indicates the document could not be loaded or rendered
	ErrRenderFailed = errors.New("render failed")

	// ErrPageOutOfRange indicates a page number outside the document
	ErrPageOutOfRange = errors.New("page out of range")
)
