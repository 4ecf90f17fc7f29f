package database

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/biosecret/go-todo/models"
)

var userColumns = []string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}

// CreateUser inserts u.
func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt, u.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, query, args...)
	return translate(err)
}

// GetUser returns the user with the given id.
func (p *Postgres) GetUser(ctx context.Context, id string) (*models.User, error) {
	return p.getUser(ctx, psql.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}).Limit(1))
}

// FindByCredential matches credential against the username or, lowercased,
// against the email. A username match wins.
func (p *Postgres) FindByCredential(ctx context.Context, credential string) (*models.User, error) {
	return p.getUser(ctx, psql.Select(userColumns...).
		From("users").
		Where(squirrel.Or{
			squirrel.Eq{"username": credential},
			squirrel.Eq{"email": strings.ToLower(credential)},
		}).
		OrderByClause("username = ? DESC", credential).
		Limit(1))
}

func (p *Postgres) getUser(ctx context.Context, sel squirrel.SelectBuilder) (*models.User, error) {
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := p.db.GetContext(ctx, &u, query, args...); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ListUsers returns all users ordered by creation time.
func (p *Postgres) ListUsers(ctx context.Context) ([]models.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").OrderBy("created_at").ToSql()
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := p.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole sets the role of user id and returns the updated row.
func (p *Postgres) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	query, args, err := psql.Update("users").
		Set("role", string(role)).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := p.db.GetContext(ctx, &u, query, args...); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
