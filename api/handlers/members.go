package handlers

import (
	"errors"
	"net/http"

	"github.com/EO-DataHub/eodhp-group-services/api/services"
	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// @Summary List group members
// @Description Returns the group and its members in insertion order.
// @Tags groups
// @Produce json
// @Param group-id path string true "Group ID" example(g1)
// @Success 200 {object} models.Response{data=models.GroupMembersResponse}
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /groups/{group-id}/members [get]
func GetGroupMembers(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := mux.Vars(r)["group-id"]
		logger := zerolog.Ctx(r.Context()).With().Str("group_id", groupID).Logger()

		group, users, err := svc.GroupMembers(r.Context(), groupID)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusNotFound {
				services.HandleErrResponse(w, status, errors.New("group not found"))
				return
			}
			logger.Error().Err(err).Msg("Failed to load group members")
			services.HandleErrResponse(w, status, errors.New("failed to load group members"))
			return
		}

		logger.Info().Int("member_count", len(users)).Msg("Successfully retrieved group members")
		services.HandleSuccessResponse(w, http.StatusOK, nil, models.Response{
			Success: 1,
			Data:    models.GroupMembersResponse{Group: *group, Members: users},
		}, "")
	}
}

// @Summary Remove a user from a group
// @Tags groups
// @Param group-id path string true "Group ID" example(g1)
// @Param user-id path string true "User ID" example(u1)
// @Success 204
// @Failure 404 {object} models.Response
// @Failure 500 {object} models.Response
// @Router /groups/{group-id}/members/{user-id} [delete]
func RemoveGroupMember(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		groupID := vars["group-id"]
		userID := vars["user-id"]
		logger := zerolog.Ctx(r.Context()).With().Str("group_id", groupID).Str("user_id", userID).Logger()

		if err := svc.RemoveUserFromGroup(r.Context(), userID, groupID); err != nil {
			status := statusFor(err)
			if status == http.StatusNotFound {
				logger.Info().Err(err).Msg("Membership not found")
				services.HandleErrResponse(w, status, notFoundMessage(err))
				return
			}
			logger.Error().Err(err).Msg("Failed to remove user from group")
			services.HandleErrResponse(w, status, errors.New("failed to remove user from group"))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
