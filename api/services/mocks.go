package services

import (
	"context"

	"github.com/EO-DataHub/eodhp-group-services/models"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/mock"
)

type MockMembershipStore struct {
	mock.Mock
}

type MockEventPublisher struct {
	mock.Mock
}

type MockMailer struct {
	mock.Mock
}

type MockAWSEmailClient struct {
	mock.Mock
}

func (m *MockMembershipStore) FindUsers(ctx context.Context, groupID string) ([]models.User, error) {
	args := m.Called(ctx, groupID)
	if users := args.Get(0); users != nil {
		return users.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	args := m.Called(ctx, groupID)
	if group := args.Get(0); group != nil {
		return group.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipStore) RemoveUserFromGroup(ctx context.Context, userID, groupID string) (*models.User, error) {
	args := m.Called(ctx, userID, groupID)
	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMembershipStore) AddUserToGroup(ctx context.Context, userID, groupID string) error {
	args := m.Called(ctx, userID, groupID)
	return args.Error(0)
}

func (m *MockEventPublisher) Publish(event models.MembershipEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() {
	m.Called()
}

func (m *MockMailer) SendRemovalNotice(ctx context.Context, user models.User, group models.Group) error {
	args := m.Called(ctx, user, group)
	return args.Error(0)
}

func (m *MockAWSEmailClient) SendEmail(ctx context.Context, input *sesv2.SendEmailInput, opts ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, input, opts)
	if out := args.Get(0); out != nil {
		return out.(*sesv2.SendEmailOutput), args.Error(1)
	}
	return nil, args.Error(1)
}
