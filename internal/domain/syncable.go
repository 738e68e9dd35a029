package domain

import "time"

// Syncable provides the identity and timestamp fields shared by every stored entity.
// It gets embedded in each domain type so stores and handlers treat them uniformly.
type Syncable struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (s *Syncable) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (s *Syncable) InitTimestamps() {
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
}
