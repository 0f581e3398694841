package triage

import "errors"

var (
	// ErrNoLink indicates the issue body contains no specification link.
	ErrNoLink = errors.New("no specification link in issue body")
	// ErrInvalidLink indicates the link does not point at the specification repository.
	ErrInvalidLink = errors.New("invalid specification link")
	// ErrPrivateLink indicates the link points at the private mirror of the specification repository.
	ErrPrivateLink = errors.New("specification link points at private repository")
	// ErrAmbiguousLink indicates a pull request touches more than one service.
	ErrAmbiguousLink = errors.New("pull request spans multiple services")
	// ErrNoServicePath indicates no resource-manager directory could be found for the link.
	ErrNoServicePath = errors.New("no resource-manager service path")
	// ErrNoDefaultTag indicates the readme declares no package tag.
	ErrNoDefaultTag = errors.New("readme declares no default tag")
	// ErrNoHandle indicates an identity has no repository handle (no credential).
	ErrNoHandle = errors.New("no repository handle for identity")
	// ErrEmptyPool indicates there is no one to assign issues to.
	ErrEmptyPool = errors.New("assignee pool is empty")
)
