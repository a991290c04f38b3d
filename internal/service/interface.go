package service

import (
	"context"
	"time"

	"github.com/stemsi/kelas-backend/internal/model"
)

// UserRepository is the persistence the credential store needs.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ClassRepository is the persistence the class registry needs.
type ClassRepository interface {
	Create(ctx context.Context, c *model.Class) error
	GetByID(ctx context.Context, id int) (*model.Class, error)
	List(ctx context.Context) ([]model.Class, error)
	Delete(ctx context.Context, id int) error
}

// AssignmentRepository is the persistence the assignment ledger needs.
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.Assignment) error
	GetByID(ctx context.Context, id int) (*model.Assignment, error)
	UpdateURL(ctx context.Context, a *model.Assignment) error
	Delete(ctx context.Context, id int) error
	ListByClass(ctx context.Context, classID int) ([]model.Assignment, error)
	ListByStudent(ctx context.Context, studentID int) ([]model.Assignment, error)
}

// AssignmentLister lists a class's assignments. AssignmentService satisfies it.
type AssignmentLister interface {
	ListByClass(ctx context.Context, classID int) ([]model.Assignment, error)
}

// SessionStore keeps server-side session records keyed by token ID.
type SessionStore interface {
	Save(ctx context.Context, jti string, userID int, ttl time.Duration) error
	Lookup(ctx context.Context, jti string) (int, error)
	Delete(ctx context.Context, jti string) error
}

// ClassCache caches the full class list.
type ClassCache interface {
	Get(ctx context.Context) ([]model.Class, bool, error)
	Set(ctx context.Context, classes []model.Class) error
	Invalidate(ctx context.Context) error
}

// ActivityPublisher broadcasts class activity to live viewers.
type ActivityPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}
