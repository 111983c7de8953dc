package model

type User interface {
	GetID() uint
	GetName() string

	// UpdatePassword rehashes and persists the user's password.
	UpdatePassword(password string) error

	// Check reports whether the supplied password verifies against
	// the stored hash.
	Check(password string) bool

	GetFlags() Flags

	// SetFlags persists the supplied set verbatim, including any
	// bits outside the role enumeration.
	SetFlags(Flags) error

	Erase() error
}
