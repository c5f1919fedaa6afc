package domain

import "errors"

// Account errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// Favorite errors
var (
	ErrFavoriteExists   = errors.New("champion is already a favorite")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Build errors
var (
	ErrBuildNotFound    = errors.New("build not found")
	ErrNotBuildOwner    = errors.New("build belongs to another user")
	ErrInvalidBuildData = errors.New("items must be a JSON array of item ids")
)

// Catalog errors
var (
	ErrChampionNotFound = errors.New("champion not found")
	ErrUpstream         = errors.New("data dragon unavailable")
)
