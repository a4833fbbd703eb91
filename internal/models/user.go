package models

import "time"

// User is identified by username rather than an auto-increment id: every
// other table in this schema carries a username foreign key (invariant 6
// below), so username is the natural gorm primary key here.
type User struct {
	Username             string     `gorm:"primaryKey;size:64" json:"username"`
	DisplayName          string     `gorm:"size:128" json:"display_name"`
	Email                string     `gorm:"uniqueIndex;not null;size:255" json:"email"`
	HashedPassword       string     `gorm:"not null" json:"-"`
	HashedRefreshToken   string     `json:"-"`
	RefreshTokenExpireAt *time.Time `json:"-"`
	LastSeen             time.Time  `json:"last_seen"`
	CreatedAt            time.Time  `json:"created_at"`

	SentRequests     []FriendRequest  `gorm:"foreignKey:SenderUsername;references:Username;constraint:OnDelete:CASCADE" json:"-"`
	ReceivedRequests []FriendRequest  `gorm:"foreignKey:RecipientUsername;references:Username;constraint:OnDelete:CASCADE" json:"-"`
	PendingSent      []PendingMessage `gorm:"foreignKey:SenderUsername;references:Username;constraint:OnDelete:CASCADE" json:"-"`
	PendingReceived  []PendingMessage `gorm:"foreignKey:RecipientUsername;references:Username;constraint:OnDelete:CASCADE" json:"-"`
}

// Public is the subset of a User safe to return to other clients.
type Public struct {
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	LastSeen    time.Time `json:"last_seen"`
}

func (u *User) Public() Public {
	return Public{Username: u.Username, DisplayName: u.DisplayName, LastSeen: u.LastSeen}
}

// RegisterRequest is the transport-level registration payload.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the transport-level login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the transport-level token-refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Token is the credential pair issued by register/login/refresh.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
}
