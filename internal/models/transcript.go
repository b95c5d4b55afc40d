package models

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// TranscriptEntry is one line of the append-only chat log.
type TranscriptEntry struct {
	ID         uuid.UUID `db:"id"`
	ClientID   uuid.UUID `db:"client_id"`
	SessionID  string    `db:"session_id"`
	Sender     Sender    `db:"sender"`
	Message    string    `db:"message"`
	Department string    `db:"department"`
	CreatedAt  time.Time `db:"created_at"`
}
