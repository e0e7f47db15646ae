// Package domain contains the core business entities for Beatrix Photos.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// Most catalogue operations report validation failures as boolean
// results instead; these sentinels cover the cases that cross the
// catalog and snapshot boundaries as errors.

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates a user with the same username
	// (compared case-insensitively) exists.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrAlbumNotFound indicates the requested album does not exist.
	ErrAlbumNotFound = errors.New("album not found")

	// ErrAlbumAlreadyExists indicates an album with the same name exists
	// for this user.
	ErrAlbumAlreadyExists = errors.New("album already exists")

	// ErrAlbumProtected indicates a delete or rename was attempted on
	// the stock user's stock album.
	ErrAlbumProtected = errors.New("album is protected")

	// ErrPhotoNotFound indicates no album of the user references the path.
	ErrPhotoNotFound = errors.New("photo not found")
)
