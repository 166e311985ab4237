package domain

import (
	"fmt"
	"regexp"
	"time"
)

// ProjectID identifies a project whose settings are stored together (URL-safe slug)
type ProjectID string

// DefaultProjectID is used when no project is configured
const DefaultProjectID ProjectID = "default"

// projectIDRegex keeps project IDs usable as document IDs and key suffixes
var projectIDRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateProjectID checks if a project ID is a valid slug
func ValidateProjectID(id ProjectID) error {
	s := string(id)
	if len(s) == 0 {
		return fmt.Errorf("project ID cannot be empty")
	}
	if len(s) > 63 {
		return fmt.Errorf("project ID cannot exceed 63 characters")
	}
	if !projectIDRegex.MatchString(s) {
		return fmt.Errorf("project ID must contain only lowercase letters, numbers, hyphens, and underscores, and must start with a letter or number")
	}
	return nil
}

// String returns the string representation
func (p ProjectID) String() string {
	return string(p)
}

// ProjectDocument is the persisted form of a project's settings
type ProjectDocument struct {
	ID        ProjectID       `json:"id" bson:"_id"`
	Settings  ProjectSettings `json:"settings" bson:"settings"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}
