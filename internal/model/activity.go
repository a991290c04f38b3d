package model

import "time"

// ActivityType names a change that happened inside a class.
type ActivityType string

const (
	ActivityAssignmentSubmitted ActivityType = "assignment_submitted"
	ActivityAssignmentUpdated   ActivityType = "assignment_updated"
	ActivityAssignmentDeleted   ActivityType = "assignment_deleted"
	ActivityClassDeleted        ActivityType = "class_deleted"
)

// ActivityEvent is broadcast to admins watching a class.
type ActivityEvent struct {
	Event        ActivityType `json:"event"`
	ClassID      int          `json:"class_id"`
	AssignmentID int          `json:"assignment_id,omitempty"`
	StudentName  string       `json:"student_name,omitempty"`
	URL          string       `json:"url,omitempty"`
	At           time.Time    `json:"at"`
}
