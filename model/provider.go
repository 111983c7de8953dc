package model

type Broker interface {
	// User Management
	GetUserNamed(name string) (User, error)
	GetUserByID(id uint) (User, error)
	CreateUser(name, password string) (User, error)
	ListUsers(page, perPage int) ([]User, error)

	// Quotes
	CreateQuote(author, body string) (Quote, error)
	GetQuote(id uint) (Quote, error)
	ApprovedQuotes(page, perPage int) ([]Quote, error)
	UnapprovedQuotes() ([]Quote, error)
}
