package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-group-services/models"
)

// GetGroup retrieves a single group.
func (g *GroupDB) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	query := `SELECT id, name, created_at FROM groups WHERE id = $1`

	var group models.Group
	err := g.DB.QueryRowContext(ctx, query, groupID).Scan(&group.ID, &group.Name, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving group: %w", err)
	}
	return &group, nil
}

// CreateGroup inserts a new group.
func (g *GroupDB) CreateGroup(ctx context.Context, group *models.Group) error {
	err := g.DB.QueryRowContext(ctx, `
		INSERT INTO groups (id, name) VALUES ($1, $2)
		RETURNING created_at`, group.ID, group.Name).Scan(&group.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting group: %w", err)
	}
	return nil
}

// RemoveUserFromGroup detaches the user from the group and returns the user
// as it was before removal. ErrNotMember is returned when the user does not
// belong to groupID.
func (g *GroupDB) RemoveUserFromGroup(ctx context.Context, userID, groupID string) (*models.User, error) {
	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	var u models.User
	err = tx.QueryRowContext(ctx, `
		UPDATE users SET group_id = NULL
		WHERE id = $1 AND group_id = $2
		RETURNING id, firstname, surname, email, created_at`,
		userID, groupID).Scan(&u.ID, &u.Firstname, &u.Surname, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		tx.Rollback()
		return nil, ErrNotMember
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("error removing user from group: %w", err)
	}

	if err := g.CommitTransaction(tx); err != nil {
		return nil, err
	}

	g.Log.Debug().Str("user_id", userID).Str("group_id", groupID).Msg("user removed from group")
	u.GroupID = &groupID
	return &u, nil
}

// AddUserToGroup assigns the user to the group, replacing any previous
// membership.
func (g *GroupDB) AddUserToGroup(ctx context.Context, userID, groupID string) error {
	if _, err := g.GetGroup(ctx, groupID); err != nil {
		return err
	}

	tx, err := g.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	affected, err := g.execQuery(ctx, tx, `UPDATE users SET group_id = $1 WHERE id = $2`, groupID, userID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error adding user to group: %w", err)
	}
	if affected == 0 {
		tx.Rollback()
		return ErrUserNotFound
	}

	return g.CommitTransaction(tx)
}
