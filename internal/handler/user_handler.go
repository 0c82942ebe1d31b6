package handler

import (
	"errors"
	"tracker_collection/internal/service"
	"tracker_collection/model"
	"tracker_collection/pkg/response"
	"tracker_collection/util"

	"github.com/gofiber/fiber/v2"
)

type IUserHandler interface {
	RegisterUser(c *fiber.Ctx) error
	LoginUser(c *fiber.Ctx) error
	RefreshTokens(c *fiber.Ctx) error
	GetProfile(c *fiber.Ctx) error
}

type UserHandler struct {
	userService service.IUserService
}

func NewUserHandler(userService service.IUserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

//------------------------------------------
//------------------------------------------

// RegisterUser godoc
//
//	@Summary		Register
//	@Description	create a new user account and return a token pair.
//	@Tags			User
//	@Param			user	body		model.RegisterUserReq	true	"new user data"
//	@Success		201		{object}	util.TokenDetail
//	@Failure		400,409	{object}	response.ResponseErrorModel
//	@Router			/v1/user/signup [post]
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var req model.RegisterUserReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}

	tokens, err := h.userService.RegisterUser(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExist) {
			return response.ResponseError(c, err.Error(), fiber.StatusConflict)
		}
		if errors.Is(err, service.ErrInvalidEmail) {
			return response.ResponseError(c, err.Error(), fiber.StatusBadRequest)
		}
		if err.Error() == response.BadRequestBody {
			return response.ResponseError(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseCreated(c, tokens)
}

// LoginUser godoc
//
//	@Summary		Login
//	@Description	verify credentials and return a token pair.
//	@Tags			User
//	@Param			user	body		model.LoginUserReq	true	"login credentials"
//	@Success		200		{object}	util.TokenDetail
//	@Failure		400,401	{object}	response.ResponseErrorModel
//	@Router			/v1/user/login [post]
func (h *UserHandler) LoginUser(c *fiber.Ctx) error {
	var req model.LoginUserReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}

	tokens, err := h.userService.LoginUser(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserPassNotMatch) {
			return response.ResponseError(c, err.Error(), fiber.StatusUnauthorized)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, tokens)
}

// RefreshTokens godoc
//
//	@Summary		Refresh Tokens
//	@Description	trade a valid refresh token for a new token pair.
//	@Tags			User
//	@Success		200		{object}	util.TokenDetail
//	@Failure		401,404	{object}	response.ResponseErrorModel
//	@Router			/v1/user/token [put]
func (h *UserHandler) RefreshTokens(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refreshToken", "")
	if refreshToken == "" {
		refreshToken = c.Get("refreshtoken", "")
		if refreshToken == "" {
			refreshToken = c.Get("refreshToken", "")
		}
	}
	if refreshToken == "" {
		return response.ResponseError(c, "Unauthorized, refreshToken not provided", fiber.StatusUnauthorized)
	}

	tokens, err := h.userService.RefreshTokens(c.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return response.ResponseError(c, err.Error(), fiber.StatusUnauthorized)
		}
		if errors.Is(err, service.ErrUserNotFound) {
			return response.ResponseError(c, err.Error(), fiber.StatusNotFound)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, tokens)
}

// GetProfile godoc
//
//	@Summary		Profile
//	@Description	get the authenticated user's profile.
//	@Tags			User
//	@Success		200		{object}	model.UserProfileRes
//	@Failure		401,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/user/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	profile, err := h.userService.GetProfile(c.Context(), jwtUserData.UserId)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return response.ResponseError(c, err.Error(), fiber.StatusNotFound)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, profile)
}
