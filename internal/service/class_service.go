package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/validator"
)

// ClassService handles class business logic.
type ClassService struct {
	classes     ClassRepository
	assignments AssignmentLister
	cache       ClassCache
	activity    ActivityPublisher
	log         zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(
	classes ClassRepository,
	assignments AssignmentLister,
	cache ClassCache,
	activity ActivityPublisher,
	log zerolog.Logger,
) *ClassService {
	return &ClassService{
		classes:     classes,
		assignments: assignments,
		cache:       cache,
		activity:    activity,
		log:         log.With().Str("component", "class_service").Logger(),
	}
}

// Create adds a class. Only admins may create classes; the role is checked
// before the input is looked at.
func (s *ClassService) Create(ctx context.Context, requester *model.User, name string) (*model.Class, error) {
	if !requester.IsAdmin() {
		return nil, ErrForbidden
	}

	req := model.CreateClassRequest{Name: strings.TrimSpace(name)}
	if err := invalid(validator.Struct(req)); err != nil {
		return nil, err
	}

	class := &model.Class{Name: req.Name}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, fromRepo("create class", err)
	}

	s.invalidate(ctx)
	s.log.Info().Int("class_id", class.ID).Str("name", class.Name).Msg("Class created")
	return class, nil
}

// Delete removes a class together with all of its assignments.
func (s *ClassService) Delete(ctx context.Context, requester *model.User, classID int) error {
	if !requester.IsAdmin() {
		return ErrForbidden
	}

	if err := s.classes.Delete(ctx, classID); err != nil {
		return fromRepo("delete class", err)
	}

	s.invalidate(ctx)
	publish(ctx, s.activity, s.log, model.ActivityEvent{
		Event:   model.ActivityClassDeleted,
		ClassID: classID,
	})
	s.log.Info().Int("class_id", classID).Msg("Class deleted")
	return nil
}

// List retrieves all classes in creation order, from the cache when warm.
func (s *ClassService) List(ctx context.Context) ([]model.Class, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Class cache read failed")
	}
	if ok {
		return cached, nil
	}

	classes, err := s.classes.List(ctx)
	if err != nil {
		return nil, fromRepo("list classes", err)
	}

	if err := s.cache.Set(ctx, classes); err != nil {
		s.log.Warn().Err(err).Msg("Class cache write failed")
	}
	return classes, nil
}

// Get retrieves a class by its ID.
func (s *ClassService) Get(ctx context.Context, classID int) (*model.Class, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, fromRepo("get class", err)
	}
	return class, nil
}

// Detail assembles the admin view of a class: the class itself, the class
// list for navigation, and its submissions grouped by student.
func (s *ClassService) Detail(ctx context.Context, classID int) (*model.ClassDetail, error) {
	class, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	classes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	students, maxURLs := BuildRoster(assignments)
	return &model.ClassDetail{
		Class:             *class,
		Classes:           classes,
		Students:          students,
		MaxURLsPerStudent: maxURLs,
	}, nil
}

func (s *ClassService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Class cache invalidation failed")
	}
}

// publish is best effort: a lost activity event must not fail the write that caused it.
func publish(ctx context.Context, p ActivityPublisher, log zerolog.Logger, event model.ActivityEvent) {
	event.At = time.Now().UTC()
	if err := p.Publish(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("event", string(event.Event)).
			Int("class_id", event.ClassID).
			Msg("Failed to publish class activity")
	}
}
