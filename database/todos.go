package database

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/biosecret/go-todo/models"
)

var todoColumns = []string{"id", "title", "description", "due_date", "category", "completed", "owner_id", "created_at", "updated_at"}

// CreateTodo inserts t.
func (p *Postgres) CreateTodo(ctx context.Context, t *models.Todo) error {
	query, args, err := psql.Insert("todos").
		Columns(todoColumns...).
		Values(t.ID, t.Title, t.Description, t.DueDate, string(t.Category), t.Completed, t.OwnerID, t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, query, args...)
	return translate(err)
}

// GetTodo returns the todo with the given id.
func (p *Postgres) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	query, args, err := psql.Select(todoColumns...).From("todos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	var t models.Todo
	if err := p.db.GetContext(ctx, &t, query, args...); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ListTodosByOwner returns the owner's todos, oldest first.
func (p *Postgres) ListTodosByOwner(ctx context.Context, ownerID string) ([]models.Todo, error) {
	query, args, err := psql.Select(todoColumns...).
		From("todos").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	todos := []models.Todo{}
	if err := p.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, err
	}
	return todos, nil
}

// ListAllTodos returns every todo joined with its owner's username.
func (p *Postgres) ListAllTodos(ctx context.Context) ([]models.Todo, error) {
	cols := make([]string, 0, len(todoColumns)+1)
	for _, c := range todoColumns {
		cols = append(cols, "t."+c)
	}
	cols = append(cols, "COALESCE(u.username, '') AS owner_name")

	query, args, err := psql.Select(cols...).
		From("todos t").
		LeftJoin("users u ON u.id = t.owner_id").
		OrderBy("t.created_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	todos := []models.Todo{}
	if err := p.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, err
	}
	return todos, nil
}

// UpdateTodo writes the mutable fields of t. The owner column is never
// updated.
func (p *Postgres) UpdateTodo(ctx context.Context, t *models.Todo) error {
	query, args, err := psql.Update("todos").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("due_date", t.DueDate).
		Set("category", string(t.Category)).
		Set("completed", t.Completed).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	return expectOneRow(res)
}

// DeleteTodo removes the todo with the given id.
func (p *Postgres) DeleteTodo(ctx context.Context, id string) error {
	query, args, err := psql.Delete("todos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}
	return expectOneRow(res)
}
