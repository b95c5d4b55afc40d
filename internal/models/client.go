package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a tenant of the router. Every chat request carries its API key.
type Client struct {
	ID        uuid.UUID `db:"id"`
	APIKey    string    `db:"api_key"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
