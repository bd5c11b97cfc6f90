package models

import "time"

// user roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is user entity
type User struct {
	ID           uint64
	Login        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// TokenPayload is payload of authorization token
type TokenPayload struct {
	UserID uint64
	Name   string
	Role   string
}
