package models

import "time"

// FriendRequest status values.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

// FriendRequest is directed from Sender to Recipient. Unique on the ordered
// pair (SenderUsername, RecipientUsername).
type FriendRequest struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	SenderUsername    string    `gorm:"not null;size:64;uniqueIndex:idx_friend_request_pair" json:"sender_username"`
	RecipientUsername string    `gorm:"not null;size:64;uniqueIndex:idx_friend_request_pair" json:"recipient_username"`
	Status            string    `gorm:"size:16;not null" json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FriendRequestResponse is returned from send_request and the
// list_received/list_sent endpoints.
type FriendRequestResponse struct {
	ID                string `json:"id"`
	SenderUsername    string `json:"sender_username"`
	RecipientUsername string `json:"recipient_username"`
	Status            string `json:"status"`
}

// Friendship is the undirected relation, stored once per unordered pair with
// User1Username < User2Username (invariant 1).
type Friendship struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	User1Username string    `gorm:"not null;size:64;uniqueIndex:idx_friendship_pair" json:"user1_username"`
	User2Username string    `gorm:"not null;size:64;uniqueIndex:idx_friendship_pair" json:"user2_username"`
	CreatedAt     time.Time `json:"created_at"`
}

// SendFriendRequestBody is the transport payload for POST /users/friends/request.
type SendFriendRequestBody struct {
	Username string `json:"username" binding:"required"`
}

// RespondFriendRequestBody is the transport payload for POST /users/friends/respond.
type RespondFriendRequestBody struct {
	RequestID string `json:"request_id" binding:"required"`
	Action    string `json:"action" binding:"required"`
}
