package model

import "time"

type Quote interface {
	GetID() uint
	GetAuthor() string
	GetBody() string
	IsApproved() bool
	GetModificationTime() time.Time

	// Update replaces the quote's author and body.
	Update(author, body string) error

	// Approve marks the quote visible to anonymous visitors.
	Approve() error

	Erase() error
}
