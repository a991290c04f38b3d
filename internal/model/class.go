package model

import "time"

// Class is an administrator-defined grouping under which students submit assignments.
type Class struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateClassRequest is the payload for adding a class.
type CreateClassRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100"`
}

// ClassDetail is the admin view of one class with its submissions grouped by student.
type ClassDetail struct {
	Class             Class                `json:"class"`
	Classes           []Class              `json:"classes"`
	Students          []StudentSubmissions `json:"students"`
	MaxURLsPerStudent int                  `json:"max_urls_per_student"`
}
