package domain

import "errors"

var (
	ErrNotFound       = errors.New("comment_not_found")
	ErrInvalidDemand  = errors.New("invalid_demand_reference")
	ErrInvalidAuthor  = errors.New("invalid_comment_author")
	ErrInvalidContent = errors.New("invalid_comment_content")
	ErrAlreadyRemoved = errors.New("comment_already_removed")
)
