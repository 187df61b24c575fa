// Package views renders the HTML pages of the group admin UI.
package views

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/EO-DataHub/eodhp-group-services/models"
)

// RemoveMemberPath is the form action of the per-row removal control.
const RemoveMemberPath = "/groups/remove-member"

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type memberTable struct {
	Users        []models.User
	GroupID      string
	RemoveAction string
}

type groupPage struct {
	Group models.Group
	Table memberTable
}

// RenderMemberTable writes the member table for groupID: a fixed header row
// and one row per user, in the order given.
func RenderMemberTable(w io.Writer, users []models.User, groupID string) error {
	return templates.ExecuteTemplate(w, "member_table", memberTable{
		Users:        users,
		GroupID:      groupID,
		RemoveAction: RemoveMemberPath,
	})
}

// RenderGroupPage writes a full HTML document with the group heading and its
// member table.
func RenderGroupPage(w io.Writer, group models.Group, users []models.User) error {
	return templates.ExecuteTemplate(w, "group_page", groupPage{
		Group: group,
		Table: memberTable{Users: users, GroupID: group.ID, RemoveAction: RemoveMemberPath},
	})
}

// RenderErrorPage writes a generic failure page for status.
func RenderErrorPage(w io.Writer, status int) error {
	return templates.ExecuteTemplate(w, "error_page", struct{ Status string }{
		Status: http.StatusText(status),
	})
}
