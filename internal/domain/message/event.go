package message

import "github.com/google/uuid"

// Frame types exchanged over the chat socket.
const (
	TypeSendMessage = "send_message"
	TypeTyping      = "typing"
	TypePing        = "ping"

	TypeNewMessage  = "new_message"
	TypeMessageSent = "message_sent"
	TypePong        = "pong"
	TypeError       = "error"
)

type NewMessageEvent struct {
	Type           string  `json:"type"`
	Message        Message `json:"message"`
	SenderUsername string  `json:"sender_username"`
}

type MessageSentEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

type TypingEvent struct {
	Type     string    `json:"type"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PongEvent struct {
	Type string `json:"type"`
}
