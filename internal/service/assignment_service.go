package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/validator"
)

// AssignmentService handles submission of assignment URLs and their upkeep
// by the submitting student.
type AssignmentService struct {
	assignments AssignmentRepository
	classes     ClassRepository
	activity    ActivityPublisher
	log         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(
	assignments AssignmentRepository,
	classes ClassRepository,
	activity ActivityPublisher,
	log zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		classes:     classes,
		activity:    activity,
		log:         log.With().Str("component", "assignment_service").Logger(),
	}
}

// Submit records url as student's submission for classID. The student's
// current name is copied onto the assignment.
func (s *AssignmentService) Submit(ctx context.Context, student *model.User, classID int, url string) (*model.Assignment, error) {
	if student == nil {
		return nil, ErrUnauthenticated
	}

	req := model.SubmitAssignmentRequest{ClassID: classID, URL: strings.TrimSpace(url)}
	if err := invalid(validator.Struct(req)); err != nil {
		return nil, err
	}

	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return nil, fromRepo("get class", err)
	}

	studentID := student.ID
	a := &model.Assignment{
		ClassID:     classID,
		StudentID:   &studentID,
		URL:         req.URL,
		StudentName: student.Name,
	}
	// The class can still vanish between the lookup and the insert; the
	// foreign key catches that and it surfaces as ErrNotFound too.
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, fromRepo("create assignment", err)
	}

	publish(ctx, s.activity, s.log, model.ActivityEvent{
		Event:        model.ActivityAssignmentSubmitted,
		ClassID:      a.ClassID,
		AssignmentID: a.ID,
		StudentName:  a.StudentName,
		URL:          a.URL,
	})
	return a, nil
}

// Get returns an assignment owned by requester.
func (s *AssignmentService) Get(ctx context.Context, requester *model.User, assignmentID int) (*model.Assignment, error) {
	if requester == nil {
		return nil, ErrUnauthenticated
	}

	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, fromRepo("get assignment", err)
	}
	if !a.OwnedBy(requester.ID) {
		return nil, ErrForbidden
	}
	return a, nil
}

// Update replaces the URL of an assignment owned by requester. The ID and
// class stay the same.
func (s *AssignmentService) Update(ctx context.Context, requester *model.User, assignmentID int, url string) (*model.Assignment, error) {
	a, err := s.Get(ctx, requester, assignmentID)
	if err != nil {
		return nil, err
	}

	req := model.UpdateAssignmentRequest{URL: strings.TrimSpace(url)}
	if err := invalid(validator.Struct(req)); err != nil {
		return nil, err
	}

	a.URL = req.URL
	if err := s.assignments.UpdateURL(ctx, a); err != nil {
		return nil, fromRepo("update assignment", err)
	}

	publish(ctx, s.activity, s.log, model.ActivityEvent{
		Event:        model.ActivityAssignmentUpdated,
		ClassID:      a.ClassID,
		AssignmentID: a.ID,
		StudentName:  a.StudentName,
		URL:          a.URL,
	})
	return a, nil
}

// Delete removes an assignment owned by requester.
func (s *AssignmentService) Delete(ctx context.Context, requester *model.User, assignmentID int) error {
	a, err := s.Get(ctx, requester, assignmentID)
	if err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, a.ID); err != nil {
		return fromRepo("delete assignment", err)
	}

	publish(ctx, s.activity, s.log, model.ActivityEvent{
		Event:        model.ActivityAssignmentDeleted,
		ClassID:      a.ClassID,
		AssignmentID: a.ID,
		StudentName:  a.StudentName,
	})
	return nil
}

// ListByClass returns every assignment of a class in submission order.
func (s *AssignmentService) ListByClass(ctx context.Context, classID int) ([]model.Assignment, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return nil, fromRepo("get class", err)
	}

	list, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, fromRepo("list assignments", err)
	}
	return list, nil
}

// ListByStudent returns every assignment submitted by studentID.
func (s *AssignmentService) ListByStudent(ctx context.Context, studentID int) ([]model.Assignment, error) {
	list, err := s.assignments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fromRepo("list assignments", err)
	}
	return list, nil
}
