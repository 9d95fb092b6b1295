package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound = errors.New("resource not found")

	// Post errors
	ErrPostNotFound = errors.New("post not found")

	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")

	// Taxonomy errors
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrAuthorNotFound   = errors.New("author not found")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Cache errors
	ErrCacheUnavailable = errors.New("cache backend unavailable")
)
