package models

const (
	MembershipAdded   = "added"
	MembershipRemoved = "removed"
)

// MembershipEvent is published whenever a user joins or leaves a group.
type MembershipEvent struct {
	Action        string `json:"action"`
	UserID        string `json:"userId"`
	GroupID       string `json:"groupId"`
	CorrelationID string `json:"correlationId"`
	Timestamp     int64  `json:"timestamp"`
}
