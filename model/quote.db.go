package model

import "time"

type dbQuote struct {
	ID        uint `gorm:"primary_key"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Author   string `gorm:"type:varchar(512)"`
	Body     string `gorm:"column:quote;type:text"`
	Approved bool   `gorm:"default:false"`

	broker *dbBroker
}

// gorm
func (dbQuote) TableName() string {
	return "quotes"
}

func (q *dbQuote) GetID() uint {
	return q.ID
}

func (q *dbQuote) GetAuthor() string {
	return q.Author
}

func (q *dbQuote) GetBody() string {
	return q.Body
}

func (q *dbQuote) IsApproved() bool {
	return q.Approved
}

func (q *dbQuote) GetModificationTime() time.Time {
	return q.UpdatedAt
}

func (q *dbQuote) Update(author, body string) error {
	updates := map[string]interface{}{"Author": author, "Body": body}
	if err := q.broker.Model(q).Updates(updates).Error; err != nil {
		return err
	}
	q.Author = author
	q.Body = body
	return nil
}

func (q *dbQuote) Approve() error {
	if err := q.broker.Model(q).Update("Approved", true).Error; err != nil {
		return err
	}
	q.Approved = true
	return nil
}

func (q *dbQuote) Erase() error {
	return q.broker.Delete(q).Error
}
