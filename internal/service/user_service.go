package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tracker_collection/db"
	"tracker_collection/internal/repository"
	"tracker_collection/model"
	errorHandler "tracker_collection/pkg/error"
	"tracker_collection/pkg/response"
	"tracker_collection/util"

	"github.com/badoux/checkmail"
)

type IUserService interface {
	RegisterUser(ctx context.Context, req *model.RegisterUserReq) (*util.TokenDetail, error)
	LoginUser(ctx context.Context, req *model.LoginUserReq) (*util.TokenDetail, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*util.TokenDetail, error)
	GetProfile(ctx context.Context, userId int64) (*model.UserProfileRes, error)
}

var (
	ErrUserNotFound        = errors.New(response.UserNotFound)
	ErrInvalidEmail        = errors.New(response.InvalidEmail)
	ErrUserAlreadyExist    = errors.New(response.UsernameAlreadyExist)
	ErrUserPassNotMatch    = errors.New(response.UserPassNotMatch)
	ErrInvalidRefreshToken = errors.New(response.InvalidRefreshToken)
)

type UserService struct {
	userRepo repository.IUserRepository
	timeout  time.Duration
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		timeout:  time.Duration(2) * time.Second,
	}
}

//------------------------------------------
//------------------------------------------

func (s *UserService) RegisterUser(ctx context.Context, req *model.RegisterUserReq) (*util.TokenDetail, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if username == "" || len(req.Password) < 8 {
		return nil, errors.New(response.BadRequestBody)
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}

	hashedPassword, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:   username,
		PublicName: username,
		Email:      email,
		Password:   hashedPassword,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	err = s.userRepo.CreateUser(user)
	if err != nil {
		if db.IsUniqueConstraintError(err) {
			return nil, ErrUserAlreadyExist
		}
		return nil, err
	}

	return util.CreateTokens(user)
}

func (s *UserService) LoginUser(ctx context.Context, req *model.LoginUserReq) (*util.TokenDetail, error) {
	user, err := s.userRepo.GetUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserPassNotMatch
	}

	ok, needsRehash := util.CheckPassword(user.Password, req.Password)
	if !ok {
		return nil, ErrUserPassNotMatch
	}

	if needsRehash {
		// migrated accounts get upgraded to bcrypt on their first login
		if newHash, hashErr := util.HashPassword(req.Password); hashErr == nil {
			if err := s.userRepo.UpdateUserPassword(user.UserId, newHash); err != nil {
				errorMessage := fmt.Sprintf("Error on rehashing password of user %d: %v", user.UserId, err)
				errorHandler.SaveError(errorMessage, err)
			}
		}
	}

	return util.CreateTokens(user)
}

// RefreshTokens trades a valid refresh token for a fresh token pair. The user
// row is re-read so tokens issued for a deleted account stop working here.
func (s *UserService) RefreshTokens(ctx context.Context, refreshToken string) (*util.TokenDetail, error) {
	_, claims, err := util.VerifyRefreshToken(refreshToken)
	if err != nil || claims == nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserById(claims.UserId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return util.CreateTokens(user)
}

func (s *UserService) GetProfile(ctx context.Context, userId int64) (*model.UserProfileRes, error) {
	user, err := s.userRepo.GetUserById(userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &model.UserProfileRes{
		UserId:     user.UserId,
		Username:   user.Username,
		PublicName: user.PublicName,
		Email:      user.Email,
		CreatedAt:  user.CreatedAt,
	}, nil
}
