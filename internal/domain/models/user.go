package model

import "time"

const DefaultUserStatus = "I am new!"

type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Posts     []string  `json:"posts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SignupDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
