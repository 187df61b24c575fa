package services

import (
	"context"

	"github.com/EO-DataHub/eodhp-group-services/internal/events"
	"github.com/EO-DataHub/eodhp-group-services/models"
)

// MemberStore is the read path for group members.
type MemberStore interface {
	FindUsers(ctx context.Context, groupID string) ([]models.User, error)
}

// MembershipStore is everything the membership service needs from storage.
// *db.GroupDB satisfies it.
type MembershipStore interface {
	MemberStore
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	RemoveUserFromGroup(ctx context.Context, userID, groupID string) (*models.User, error)
	AddUserToGroup(ctx context.Context, userID, groupID string) error
}

// Mailer notifies users about membership changes.
type Mailer interface {
	SendRemovalNotice(ctx context.Context, user models.User, group models.Group) error
}

// MembershipService contains all shared dependencies for handlers.
type MembershipService struct {
	Store     MembershipStore
	Publisher events.Notifier
	// Mailer is optional; removal notices are skipped when nil.
	Mailer Mailer
}
