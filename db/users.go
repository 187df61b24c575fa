package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-group-services/models"
)

// FindUsers retrieves all users whose group is groupID, in insertion order
// of the user rows. A group without members yields an empty, non-nil slice.
func (g *GroupDB) FindUsers(ctx context.Context, groupID string) ([]models.User, error) {
	query := `SELECT id, firstname, surname, email, group_id, created_at FROM users WHERE group_id = $1 ORDER BY seq`
	rows, err := g.DB.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving group members: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Firstname, &u.Surname, &u.Email, &u.GroupID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group members: %w", err)
	}
	return users, nil
}

// GetUser retrieves a single user.
func (g *GroupDB) GetUser(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT id, firstname, surname, email, group_id, created_at FROM users WHERE id = $1`

	var u models.User
	err := g.DB.QueryRowContext(ctx, query, userID).
		Scan(&u.ID, &u.Firstname, &u.Surname, &u.Email, &u.GroupID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a user, optionally already assigned to a group.
func (g *GroupDB) CreateUser(ctx context.Context, user *models.User) error {
	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (id, firstname, surname, email, group_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		user.ID, user.Firstname, user.Surname, user.Email, user.GroupID).Scan(&user.CreatedAt)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error inserting user: %w", err)
	}

	return g.CommitTransaction(tx)
}
