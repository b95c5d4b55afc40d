package models

import (
	"time"

	"github.com/google/uuid"
)

// GeneralDepartment is the reserved unrouted state. It is never a valid
// department name.
const GeneralDepartment = "GENERAL"

// Department is a routing destination. Keywords trigger the keyword
// classifier in registry order, CannedResponse opens the conversation,
// KnowledgeBase (optional) grounds generated answers, Recipient receives
// hand-off alerts.
type Department struct {
	ID             uuid.UUID `db:"id"`
	ClientID       uuid.UUID `db:"client_id"`
	Name           string    `db:"name"`
	Keywords       []string  `db:"keywords"`
	CannedResponse string    `db:"canned_response"`
	KnowledgeBase  string    `db:"knowledge_base"`
	Recipient      string    `db:"recipient"`
	Position       int       `db:"position"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
