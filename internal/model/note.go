package model

import (
	"fmt"
	"time"
)

// Note is a stored event: a name plus the recurrence spec that schedules it.
type Note struct {
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Spec        RecurrenceSpec `json:"spec"`
}

// Validate ensures the note can be stored.
func (n *Note) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("note id is required")
	}
	if n.Name == "" {
		return fmt.Errorf("note name is required")
	}
	if err := n.Spec.Validate(); err != nil {
		return fmt.Errorf("invalid recurrence spec: %w", err)
	}
	return nil
}
