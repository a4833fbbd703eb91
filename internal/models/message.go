package models

import "time"

// PendingMessage is a server-persisted message whose recipient has not yet
// acknowledged delivery. Existence is the undelivered state — there is no
// separate "delivered" flag; acknowledgment deletes the row.
type PendingMessage struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	SenderUsername    string    `gorm:"not null;size:64;index" json:"sender_username"`
	RecipientUsername string    `gorm:"not null;size:64;index" json:"recipient_username"`
	Text              string    `gorm:"not null" json:"text"`
	CreatedAt         time.Time `json:"created_at"`
}

// MessageResponse is the transport shape returned for sent/pending messages.
// The "new_message" realtime frame carries the same fields as NewMessageData.
type MessageResponse struct {
	ID                string    `json:"id"`
	SenderUsername    string    `json:"sender_username"`
	RecipientUsername string    `json:"recipient_username"`
	Text              string    `json:"text"`
	CreatedAt         time.Time `json:"created_at"`
}

func (m *PendingMessage) Response() MessageResponse {
	return MessageResponse{
		ID:                m.ID,
		SenderUsername:    m.SenderUsername,
		RecipientUsername: m.RecipientUsername,
		Text:              m.Text,
		CreatedAt:         m.CreatedAt,
	}
}

// SendMessageBody is the transport payload for POST /messages/.
type SendMessageBody struct {
	RecipientUsername string `json:"recipient_username" binding:"required"`
	Text              string `json:"text" binding:"required"`
}
