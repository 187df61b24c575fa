package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/EO-DataHub/eodhp-group-services/api/services"
	"github.com/EO-DataHub/eodhp-group-services/db"
	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	group1 = &models.Group{ID: "g1", Name: "10А"}
	ann    = models.User{ID: "u1", Firstname: "Ann", Surname: "Lee", Email: "a@x.com"}
)

func newTestService() (*services.MembershipService, *services.MockMembershipStore, *services.MockEventPublisher) {
	store := new(services.MockMembershipStore)
	publisher := new(services.MockEventPublisher)
	return &services.MembershipService{Store: store, Publisher: publisher}, store, publisher
}

func postRemoveForm(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/groups/remove-member", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestGetGroupPage(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("FindUsers", mock.Anything, "g1").Return([]models.User{ann}, nil)

	req := httptest.NewRequest(http.MethodGet, "/groups/g1", nil)
	req = mux.SetURLVars(req, map[string]string{"group-id": "g1"})
	w := httptest.NewRecorder()

	GetGroupPage(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "<th>Имя</th>")
	assert.Contains(t, body, `name="id_student" value="u1"`)
	assert.Contains(t, body, `name="id_group" value="g1"`)
	assert.Contains(t, body, `href="/user/u1"`)
}

func TestGetGroupPage_UnknownGroup(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "nope").Return(nil, db.ErrGroupNotFound)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/groups/nope", nil), map[string]string{"group-id": "nope"})
	w := httptest.NewRecorder()

	GetGroupPage(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetGroupPage_StoreFailure(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("FindUsers", mock.Anything, "g1").Return(nil, errors.New("dial tcp: connection refused"))

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/groups/g1", nil), map[string]string{"group-id": "g1"})
	w := httptest.NewRecorder()

	GetGroupPage(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRemoveMemberForm(t *testing.T) {
	svc, store, publisher := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("RemoveUserFromGroup", mock.Anything, "u1", "g1").Return(&ann, nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	RemoveMemberForm(svc).ServeHTTP(w, postRemoveForm(url.Values{"id_student": {"u1"}, "id_group": {"g1"}}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/groups/g1", w.Header().Get("Location"))
	store.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRemoveMemberForm_MissingFields(t *testing.T) {
	svc, store, _ := newTestService()

	for name, values := range map[string]url.Values{
		"no student": {"id_group": {"g1"}},
		"no group":   {"id_student": {"u1"}},
		"empty":      {},
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RemoveMemberForm(svc).ServeHTTP(w, postRemoveForm(values))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	store.AssertNotCalled(t, "RemoveUserFromGroup", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMemberForm_NotMember(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("RemoveUserFromGroup", mock.Anything, "u9", "g1").Return(nil, db.ErrNotMember)

	w := httptest.NewRecorder()
	RemoveMemberForm(svc).ServeHTTP(w, postRemoveForm(url.Values{"id_student": {"u9"}, "id_group": {"g1"}}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveMemberForm_StoreFailure(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("RemoveUserFromGroup", mock.Anything, "u1", "g1").Return(nil, errors.New("tx aborted"))

	w := httptest.NewRecorder()
	RemoveMemberForm(svc).ServeHTTP(w, postRemoveForm(url.Values{"id_student": {"u1"}, "id_group": {"g1"}}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetGroupMembers(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("FindUsers", mock.Anything, "g1").Return([]models.User{ann}, nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/groups/g1/members", nil), map[string]string{"group-id": "g1"})
	w := httptest.NewRecorder()

	GetGroupMembers(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success int                         `json:"success"`
		Data    models.GroupMembersResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Success)
	assert.Equal(t, "g1", resp.Data.Group.ID)
	require.Len(t, resp.Data.Members, 1)
	assert.Equal(t, "u1", resp.Data.Members[0].ID)
}

func TestGetGroupMembers_EmptyGroupIsArray(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g2").Return(&models.Group{ID: "g2"}, nil)
	store.On("FindUsers", mock.Anything, "g2").Return([]models.User{}, nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/groups/g2/members", nil), map[string]string{"group-id": "g2"})
	w := httptest.NewRecorder()

	GetGroupMembers(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"members":[]`)
}

func TestRemoveGroupMember(t *testing.T) {
	svc, store, publisher := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("RemoveUserFromGroup", mock.Anything, "u1", "g1").Return(&ann, nil)
	publisher.On("Publish", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/groups/g1/members/u1", nil)
	req = mux.SetURLVars(req, map[string]string{"group-id": "g1", "user-id": "u1"})
	w := httptest.NewRecorder()

	RemoveGroupMember(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRemoveGroupMember_NotMember(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g1").Return(group1, nil)
	store.On("RemoveUserFromGroup", mock.Anything, "u9", "g1").Return(nil, db.ErrNotMember)

	req := httptest.NewRequest(http.MethodDelete, "/api/groups/g1/members/u9", nil)
	req = mux.SetURLVars(req, map[string]string{"group-id": "g1", "user-id": "u9"})
	w := httptest.NewRecorder()

	RemoveGroupMember(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, models.ErrCodeNotFound, resp.ErrorCode)
	assert.Equal(t, "user is not a member of the group", resp.ErrorDetails)
}

func TestRemoveGroupMember_UnknownGroup(t *testing.T) {
	svc, store, _ := newTestService()
	store.On("GetGroup", mock.Anything, "g404").Return(nil, db.ErrGroupNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/groups/g404/members/u1", nil)
	req = mux.SetURLVars(req, map[string]string{"group-id": "g404", "user-id": "u1"})
	w := httptest.NewRecorder()

	RemoveGroupMember(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "group not found", resp.ErrorDetails)
	assert.NotContains(t, w.Body.String(), "g404")
}
