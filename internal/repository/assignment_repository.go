package repository

import (
	"context"

	"github.com/stemsi/kelas-backend/internal/model"
)

const assignmentColumns = `id, class_id, student_id, url, student_name, created_at, updated_at`

// AssignmentRepository handles assignment data access.
type AssignmentRepository struct {
	db Querier
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(db Querier) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.db.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignment WHERE id = $1`, id,
	).Scan(&a.ID, &a.ClassID, &a.StudentID, &a.URL, &a.StudentName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListByClass retrieves all assignments of a class in submission order.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID int) ([]model.Assignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM assignment WHERE class_id = $1 ORDER BY id`, classID)
}

// ListByStudent retrieves all assignments submitted by a user in submission order.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Assignment, error) {
	return r.list(ctx, `SELECT `+assignmentColumns+` FROM assignment WHERE student_id = $1 ORDER BY id`, studentID)
}

func (r *AssignmentRepository) list(ctx context.Context, query string, arg any) ([]model.Assignment, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.ClassID, &a.StudentID, &a.URL, &a.StudentName, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Create inserts a new assignment. A dangling class_id is reported as ErrClassMissing.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO assignment (class_id, student_id, url, student_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.ClassID, a.StudentID, a.URL, a.StudentName,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgForeignKeyViolation {
			return ErrClassMissing
		}
		return err
	}
	return nil
}

// UpdateURL changes the URL of an assignment and refreshes a.UpdatedAt.
func (r *AssignmentRepository) UpdateURL(ctx context.Context, a *model.Assignment) error {
	err := r.db.QueryRow(ctx,
		`UPDATE assignment SET url = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING updated_at`,
		a.URL, a.ID,
	).Scan(&a.UpdatedAt)
	return notFound(err)
}

// Delete removes an assignment by ID. Returns ErrNotFound if nothing was deleted.
func (r *AssignmentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assignment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
