package model

import "time"

// Assignment is one URL submitted by a student for a class.
// StudentName is a snapshot taken at submission time and is not kept in sync
// with the user's current name.
type Assignment struct {
	ID          int       `json:"id"`
	ClassID     int       `json:"class_id"`
	StudentID   *int      `json:"student_id"`
	URL         string    `json:"url"`
	StudentName string    `json:"student_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnedBy reports whether the assignment was submitted by userID.
func (a *Assignment) OwnedBy(userID int) bool {
	return a.StudentID != nil && *a.StudentID == userID
}

// SubmitAssignmentRequest is the payload for submitting an assignment URL.
type SubmitAssignmentRequest struct {
	ClassID int    `json:"class_id" form:"class_id" binding:"required,min=1"`
	URL     string `json:"url" form:"url" binding:"required,url,max=255"`
}

// UpdateAssignmentRequest is the payload for editing a submitted URL.
type UpdateAssignmentRequest struct {
	URL string `json:"url" form:"url" binding:"required,url,max=255"`
}

// StudentSubmissions holds every URL submitted under one student name.
type StudentSubmissions struct {
	Name string   `json:"name"`
	URLs []string `json:"urls"`
}
