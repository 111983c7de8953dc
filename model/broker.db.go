package model

import (
	"database/sql"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"

	"github.com/quotedb/qdb/lib/gormrus"
)

type dbBroker struct {
	*gorm.DB
	Logger logrus.FieldLogger

	debug bool
}

// User

func (broker *dbBroker) getUserWithQuery(query string, args ...interface{}) (User, error) {
	var u dbUser
	if err := broker.Where(query, args...).First(&u).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.broker = broker
	return &u, nil
}

func (broker *dbBroker) GetUserNamed(name string) (User, error) {
	return broker.getUserWithQuery("name = ?", name)
}

func (broker *dbBroker) GetUserByID(id uint) (User, error) {
	return broker.getUserWithQuery("id = ?", id)
}

func (broker *dbBroker) CreateUser(name, password string) (User, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := dbUser{
		Name:      name,
		Password:  hash,
		UserFlags: 0,
		broker:    broker,
	}
	if err := broker.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (broker *dbBroker) ListUsers(page, perPage int) ([]User, error) {
	if page < 1 {
		page = 1
	}

	var us []*dbUser
	q := broker.Model(&dbUser{}).Order("id").
		Offset((page - 1) * perPage).Limit(perPage)
	if err := q.Find(&us).Error; err != nil {
		return nil, err
	}

	users := make([]User, len(us))
	for i, u := range us {
		u.broker = broker
		users[i] = u
	}
	return users, nil
}

// Quotes

func (broker *dbBroker) CreateQuote(author, body string) (Quote, error) {
	q := dbQuote{
		Author: author,
		Body:   body,
		broker: broker,
	}
	if err := broker.Create(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (broker *dbBroker) GetQuote(id uint) (Quote, error) {
	var q dbQuote
	if err := broker.Where("id = ?", id).First(&q).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	q.broker = broker
	return &q, nil
}

func (broker *dbBroker) quotesWhere(query interface{}, args ...interface{}) *gorm.DB {
	return broker.Model(&dbQuote{}).Where(query, args...).Order("id")
}

func (broker *dbBroker) ApprovedQuotes(page, perPage int) ([]Quote, error) {
	if page < 1 {
		page = 1
	}

	var qs []*dbQuote
	q := broker.quotesWhere("approved = ?", true).
		Offset((page - 1) * perPage).Limit(perPage)
	if err := q.Find(&qs).Error; err != nil {
		return nil, err
	}
	return broker.adoptQuotes(qs), nil
}

func (broker *dbBroker) UnapprovedQuotes() ([]Quote, error) {
	var qs []*dbQuote
	if err := broker.quotesWhere("approved = ?", false).Find(&qs).Error; err != nil {
		return nil, err
	}
	return broker.adoptQuotes(qs), nil
}

func (broker *dbBroker) adoptQuotes(qs []*dbQuote) []Quote {
	quotes := make([]Quote, len(qs))
	for i, q := range qs {
		q.broker = broker
		quotes[i] = q
	}
	return quotes
}

// Options

func (broker *dbBroker) setLoggerOption(log logrus.FieldLogger) {
	broker.Logger = log
}

func (broker *dbBroker) setDebugOption(debug bool) {
	broker.debug = debug
}

func NewDatabaseBroker(dialect string, sqlDb *sql.DB, options ...Option) (Broker, error) {
	if dialect == "sqlite3" {
		sqlDb.Exec("PRAGMA foreign_keys = ON")
	}

	db, err := gorm.Open(dialect, sqlDb)
	if err != nil {
		return nil, err
	}

	broker := &dbBroker{
		DB: db,
	}

	for _, opt := range options {
		if err := opt(broker); err != nil {
			return nil, err
		}
	}

	if broker.Logger != nil {
		db.SetLogger(gormrus.NewWithLogger(broker.Logger))
	}
	db.LogMode(broker.debug)

	interfacesToMigrate := []interface{}{
		&dbUser{},
		&dbQuote{},
	}

	if err := db.AutoMigrate(interfacesToMigrate...).Error; err != nil {
		return nil, err
	}

	return broker, nil
}
