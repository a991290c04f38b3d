package repository

import (
	"context"

	"github.com/stemsi/kelas-backend/internal/model"
)

// ClassRepository handles class data access.
type ClassRepository struct {
	db Querier
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db Querier) *ClassRepository {
	return &ClassRepository{db: db}
}

// GetByID retrieves a class by its ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	c := &model.Class{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM "class" WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// List retrieves all classes in insertion order.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM "class" ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO "class" (name) VALUES ($1) RETURNING id, created_at`,
		c.Name,
	).Scan(&c.ID, &c.CreatedAt)
}

// Delete removes a class by its ID. Its assignments go with it through the
// ON DELETE CASCADE foreign key. Returns ErrNotFound if nothing was deleted.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM "class" WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
