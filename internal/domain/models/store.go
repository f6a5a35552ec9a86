package models

import "time"

// Store is a physical location. Stores are pre-seeded; the ingestion path
// never creates them.
type Store struct {
	ID       int64
	Name     string
	Location string
	Phone    string
	ZipCode  string
	Address  string
	Mail     string
	Password string // login credential, never serialized in responses
	CreatedAt time.Time
}
