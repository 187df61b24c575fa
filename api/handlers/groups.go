package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/EO-DataHub/eodhp-group-services/api/services"
	"github.com/EO-DataHub/eodhp-group-services/api/views"
	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// GetGroupPage renders the group heading and its member table.
func GetGroupPage(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groupID := mux.Vars(r)["group-id"]
		logger := zerolog.Ctx(r.Context()).With().Str("group_id", groupID).Logger()

		group, users, err := svc.GroupMembers(r.Context(), groupID)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				logger.Error().Err(err).Msg("Failed to load group members")
			} else {
				logger.Info().Err(err).Msg("Group not found")
			}
			writeErrorPage(w, r, status)
			return
		}

		writeHTML(w, r, http.StatusOK, func(buf *bytes.Buffer) error {
			return views.RenderGroupPage(buf, *group, users)
		})
	}
}

// RemoveMemberForm handles the per-row removal form. On success the browser
// is sent back to the group page.
func RemoveMemberForm(svc *services.MembershipService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		if err := r.ParseForm(); err != nil {
			logger.Warn().Err(err).Msg("Invalid form payload")
			writeErrorPage(w, r, http.StatusBadRequest)
			return
		}

		payload := models.UserMembershipRequest{
			UserID:  r.PostForm.Get(models.FormFieldUserID),
			GroupID: r.PostForm.Get(models.FormFieldGroupID),
		}
		if err := payload.Validate(); err != nil {
			logger.Warn().Err(err).Msg("Invalid removal form")
			writeErrorPage(w, r, http.StatusBadRequest)
			return
		}

		if err := svc.RemoveUserFromGroup(r.Context(), payload.UserID, payload.GroupID); err != nil {
			status := statusFor(err)
			logger.Error().Err(err).Str("user_id", payload.UserID).Str("group_id", payload.GroupID).
				Int("status", status).Msg("Failed to remove user from group")
			writeErrorPage(w, r, status)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("/groups/%s", url.PathEscape(payload.GroupID)), http.StatusSeeOther)
	}
}
