package service

import (
	"context"
	"testing"
	"tracker_collection/model"
	"tracker_collection/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokens(t *testing.T) {
	userRepo := &fakeUserRepo{users: []*model.User{
		{UserId: 10, Username: "kenji", Email: "kenji@example.com"},
	}}
	svc := NewUserService(userRepo)

	tokens, err := util.CreateTokens(userRepo.users[0])
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.Greater(t, refreshed.ExpiresAt, int64(0))
}

func TestRefreshTokensRejectsMalformedToken(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{})

	_, err := svc.RefreshTokens(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshTokensRejectsDeletedUser(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{})

	tokens, err := util.CreateTokens(&model.User{UserId: 99, Username: "ghost"})
	require.NoError(t, err)

	_, err = svc.RefreshTokens(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
