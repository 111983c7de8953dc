package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type dbUser struct {
	ID        uint `gorm:"primary_key"`
	UpdatedAt time.Time

	Name     string `gorm:"type:varchar(512);unique_index"`
	Password []byte

	UserFlags Flags `gorm:"column:flags"`

	broker *dbBroker
}

// gorm
func (dbUser) TableName() string {
	return "users"
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

func (u *dbUser) GetID() uint {
	return u.ID
}

func (u *dbUser) GetName() string {
	return u.Name
}

func (u *dbUser) UpdatePassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := u.broker.Model(u).Update("Password", hash).Error; err != nil {
		return err
	}
	u.Password = hash
	return nil
}

func (u *dbUser) Check(password string) bool {
	return bcrypt.CompareHashAndPassword(u.Password, []byte(password)) == nil
}

func (u *dbUser) GetFlags() Flags {
	return u.UserFlags
}

func (u *dbUser) SetFlags(f Flags) error {
	if err := u.broker.Model(u).Update("UserFlags", f).Error; err != nil {
		return err
	}
	u.UserFlags = f
	return nil
}

func (u *dbUser) Erase() error {
	return u.broker.Delete(u).Error
}
