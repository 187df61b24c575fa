package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/EO-DataHub/eodhp-group-services/db"
	"github.com/EO-DataHub/eodhp-group-services/internal/events"
	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/rs/zerolog"
)

// GroupMembers loads the group and its members. Store errors are returned
// unchanged apart from wrapping; db.ErrGroupNotFound identifies a missing group.
func (s *MembershipService) GroupMembers(ctx context.Context, groupID string) (*models.Group, []models.User, error) {
	group, err := s.Store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading group %s: %w", groupID, err)
	}

	users, err := s.Store.FindUsers(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading members of group %s: %w", groupID, err)
	}

	zerolog.Ctx(ctx).Debug().Str("group_id", groupID).Int("member_count", len(users)).Msg("Loaded group members")
	return group, users, nil
}

// RemoveUserFromGroup detaches the user from the group. Once the store has
// committed the change, event publishing and email failures are logged only.
func (s *MembershipService) RemoveUserFromGroup(ctx context.Context, userID, groupID string) error {
	logger := zerolog.Ctx(ctx).With().Str("user_id", userID).Str("group_id", groupID).Logger()

	group, err := s.Store.GetGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("error loading group %s: %w", groupID, err)
	}

	user, err := s.Store.RemoveUserFromGroup(ctx, userID, groupID)
	if err != nil {
		return fmt.Errorf("error removing user %s from group %s: %w", userID, groupID, err)
	}
	logger.Info().Msg("User removed from group")

	event := events.NewMembershipEvent(models.MembershipRemoved, userID, groupID)
	if err := s.Publisher.Publish(event); err != nil {
		logger.Error().Err(err).Str("correlation_id", event.CorrelationID).Msg("Failed to publish membership event")
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendRemovalNotice(ctx, *user, *group); err != nil {
			logger.Error().Err(err).Msg("Failed to send removal notice")
		}
	}

	return nil
}

// ApplyEvent applies a membership change received from another service.
// Removing a user who already left the group is not an error.
func (s *MembershipService) ApplyEvent(ctx context.Context, event models.MembershipEvent) error {
	switch event.Action {
	case models.MembershipAdded:
		return s.Store.AddUserToGroup(ctx, event.UserID, event.GroupID)
	case models.MembershipRemoved:
		_, err := s.Store.RemoveUserFromGroup(ctx, event.UserID, event.GroupID)
		if errors.Is(err, db.ErrNotMember) {
			zerolog.Ctx(ctx).Debug().Str("user_id", event.UserID).Str("group_id", event.GroupID).
				Msg("Membership already removed")
			return nil
		}
		return err
	default:
		return fmt.Errorf("unknown membership action %q", event.Action)
	}
}
