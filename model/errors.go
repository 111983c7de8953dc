package model

import "errors"

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnknownRole = errors.New("unknown role")
)
