package models

import (
	"errors"
	"time"
)

// User represents a user in the system.
type User struct {
	ID        string    `json:"id"`
	Firstname string    `json:"firstname"`
	Surname   string    `json:"surname"`
	Email     string    `json:"email"`
	GroupID   *string   `json:"groupId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Group represents a group in the system.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupMembersResponse represents a response with a list of group members.
type GroupMembersResponse struct {
	Group   Group  `json:"group"`
	Members []User `json:"members"`
}

// Form field names of the member removal control.
const (
	FormFieldUserID  = "id_student"
	FormFieldGroupID = "id_group"
)

// UserMembershipRequest is the payload of the member removal form.
type UserMembershipRequest struct {
	GroupID string `json:"id_group"`
	UserID  string `json:"id_student"`
}

// Validate checks that both ids are present.
func (r UserMembershipRequest) Validate() error {
	if r.UserID == "" || r.GroupID == "" {
		return errors.New("id_student and id_group are required fields")
	}
	return nil
}
