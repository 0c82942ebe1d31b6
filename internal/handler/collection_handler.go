package handler

import (
	"errors"
	"tracker_collection/internal/service"
	"tracker_collection/model"
	"tracker_collection/pkg/response"
	"tracker_collection/util"

	"github.com/gofiber/fiber/v2"
)

type ICollectionHandler interface {
	UpsertCollectionEntry(c *fiber.Ctx) error
	RemoveCollectionEntry(c *fiber.Ctx) error
	GetCollection(c *fiber.Ctx) error
	CheckInCollection(c *fiber.Ctx) error
	GetRatingDistribution(c *fiber.Ctx) error
	GetCollectionSummary(c *fiber.Ctx) error
}

type CollectionHandler struct {
	collectionService service.ICollectionService
}

func NewCollectionHandler(collectionService service.ICollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
	}
}

//------------------------------------------
//------------------------------------------

// UpsertCollectionEntry godoc
//
//	@Summary		Add/Update Collection Entry
//	@Description	add a media item to the collection or update its status/rating/notes in place.
//	@Tags			Collection
//	@Param			mediaType	path		string						true	"anime|manga|game"
//	@Param			mediaId		path		int							true	"catalog id"
//	@Param			entry		body		model.UpsertCollectionReq	true	"entry data"
//	@Success		200			{object}	model.CollectionEntry
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/collection/add/:mediaType/:mediaId [put]
func (h *CollectionHandler) UpsertCollectionEntry(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	mediaType, err := model.ParseMediaType(c.Params("mediaType", ""))
	if err != nil {
		return response.ResponseError(c, response.InvalidMediaType, fiber.StatusBadRequest)
	}
	mediaId, err := c.ParamsInt("mediaId", 0)
	if err != nil || mediaId <= 0 {
		return response.ResponseError(c, "Invalid mediaId", fiber.StatusBadRequest)
	}

	var req model.UpsertCollectionReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}

	entry, err := h.collectionService.AddToCollection(c.Context(), jwtUserData.UserId, int64(mediaId), mediaType, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMediaNotFound):
			return response.ResponseError(c, err.Error(), fiber.StatusNotFound)
		case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidRating):
			return response.ResponseError(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, entry)
}

// RemoveCollectionEntry godoc
//
//	@Summary		Remove Collection Entry
//	@Description	remove a media item from the collection.
//	@Tags			Collection
//	@Param			mediaType	path		string	true	"anime|manga|game"
//	@Param			mediaId		path		int		true	"catalog id"
//	@Success		200			{object}	response.ResponseOKModel
//	@Failure		400,401,404	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/collection/remove/:mediaType/:mediaId [delete]
func (h *CollectionHandler) RemoveCollectionEntry(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	mediaType, err := model.ParseMediaType(c.Params("mediaType", ""))
	if err != nil {
		return response.ResponseError(c, response.InvalidMediaType, fiber.StatusBadRequest)
	}
	mediaId, err := c.ParamsInt("mediaId", 0)
	if err != nil || mediaId <= 0 {
		return response.ResponseError(c, "Invalid mediaId", fiber.StatusBadRequest)
	}

	err = h.collectionService.RemoveFromCollection(c.Context(), jwtUserData.UserId, int64(mediaId), mediaType)
	if err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			return response.ResponseError(c, err.Error(), fiber.StatusNotFound)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOK(c, "")
}

//------------------------------------------
//------------------------------------------

// GetCollection godoc
//
//	@Summary		List Collection
//	@Description	paginated listing of the user's collection, optionally filtered by status.
//	@Tags			Collection
//	@Param			mediaType	path		string	true	"anime|manga|game"
//	@Param			status		query		string	false	"status filter"
//	@Param			page		query		int		false	"page, default 1"
//	@Param			limit		query		int		false	"page size, default 24"
//	@Success		200			{object}	model.CollectionListRes
//	@Failure		400,401		{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/collection/list/:mediaType [get]
func (h *CollectionHandler) GetCollection(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	mediaType, err := model.ParseMediaType(c.Params("mediaType", ""))
	if err != nil {
		return response.ResponseError(c, response.InvalidMediaType, fiber.StatusBadRequest)
	}
	status := c.Query("status", "")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 24)

	result, err := h.collectionService.GetUserCollection(c.Context(), jwtUserData.UserId, mediaType, status, false, page, limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return response.ResponseError(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, result)
}

// CheckInCollection godoc
//
//	@Summary		Check Collection
//	@Description	check whether a media item is in the user's collection.
//	@Tags			Collection
//	@Param			mediaType	path		string	true	"anime|manga|game"
//	@Param			mediaId		path		int		true	"catalog id"
//	@Success		200			{object}	model.InCollectionRes
//	@Failure		400,401		{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/collection/check/:mediaType/:mediaId [get]
func (h *CollectionHandler) CheckInCollection(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	mediaType, err := model.ParseMediaType(c.Params("mediaType", ""))
	if err != nil {
		return response.ResponseError(c, response.InvalidMediaType, fiber.StatusBadRequest)
	}
	mediaId, err := c.ParamsInt("mediaId", 0)
	if err != nil || mediaId <= 0 {
		return response.ResponseError(c, "Invalid mediaId", fiber.StatusBadRequest)
	}

	result, err := h.collectionService.CheckInCollection(c.Context(), jwtUserData.UserId, int64(mediaId), mediaType)
	if err != nil {
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, result)
}

// GetRatingDistribution godoc
//
//	@Summary		Rating Distribution
//	@Description	rating histogram of the user's collection for one media type.
//	@Tags			Collection
//	@Param			mediaType	path		string	true	"anime|manga|game"
//	@Success		200			{object}	[]model.RatingBucket
//	@Failure		400,401		{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/collection/ratings/:mediaType [get]
func (h *CollectionHandler) GetRatingDistribution(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	mediaType, err := model.ParseMediaType(c.Params("mediaType", ""))
	if err != nil {
		return response.ResponseError(c, response.InvalidMediaType, fiber.StatusBadRequest)
	}

	buckets, err := h.collectionService.GetRatingDistribution(c.Context(), jwtUserData.UserId, mediaType)
	if err != nil {
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, buckets)
}

// GetCollectionSummary godoc
//
//	@Summary		Collection Summary
//	@Description	entry counts per media type and status.
//	@Tags			Collection
//	@Success		200	{object}	[]model.StatusCount
//	@Failure		401	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/collection/summary [get]
func (h *CollectionHandler) GetCollectionSummary(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	counts, err := h.collectionService.GetCollectionSummary(c.Context(), jwtUserData.UserId, false)
	if err != nil {
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, counts)
}
