package models

import "time"

// InstagramAccount is a simulated Instagram account owned by a user
type InstagramAccount struct {
	ID          string    `json:"_id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateInstagramAccountRequest represents an account registration request
type CreateInstagramAccountRequest struct {
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
}
