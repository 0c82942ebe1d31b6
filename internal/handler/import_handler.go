package handler

import (
	"errors"
	"tracker_collection/internal/service"
	"tracker_collection/model"
	"tracker_collection/pkg/response"
	"tracker_collection/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IImportHandler interface {
	StartImport(c *fiber.Ctx) error
	GetImportStatus(c *fiber.Ctx) error
	ExportCollection(c *fiber.Ctx) error
}

type ImportHandler struct {
	importQueueService service.IImportQueueService
	exportService      service.IExportService
	userService        service.IUserService
}

func NewImportHandler(importQueueService service.IImportQueueService, exportService service.IExportService, userService service.IUserService) *ImportHandler {
	return &ImportHandler{
		importQueueService: importQueueService,
		exportService:      exportService,
		userService:        userService,
	}
}

//------------------------------------------
//------------------------------------------

type startImportReq struct {
	Items []model.ImportItem `json:"items"`
}

type startImportRes struct {
	JobId string `json:"jobId"`
	Total int    `json:"total"`
}

// StartImport godoc
//
//	@Summary		Start MAL Import
//	@Description	enqueue a background job that imports a client-parsed MAL list into the collection.
//	@Tags			Import
//	@Param			items	body		startImportReq	true	"import items"
//	@Success		200		{object}	startImportRes
//	@Failure		400,401	{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/import/mal [post]
func (h *ImportHandler) StartImport(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	var req startImportReq
	if err := c.BodyParser(&req); err != nil {
		return response.ResponseError(c, response.BadRequestBody, fiber.StatusBadRequest)
	}
	if len(req.Items) == 0 {
		return response.ResponseError(c, response.EmptyImportList, fiber.StatusBadRequest)
	}

	profile, err := h.userService.GetProfile(c.Context(), jwtUserData.UserId)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return response.ResponseError(c, err.Error(), fiber.StatusNotFound)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	job := &model.ImportJob{
		JobId:     uuid.NewString(),
		UserId:    jwtUserData.UserId,
		UserEmail: profile.Email,
		Username:  profile.Username,
		Items:     req.Items,
	}
	if err := h.importQueueService.EnqueueImportJob(c.Context(), job); err != nil {
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	return response.ResponseOKWithData(c, startImportRes{
		JobId: job.JobId,
		Total: len(job.Items),
	})
}

// GetImportStatus godoc
//
//	@Summary		Import Status
//	@Description	progress of a queued/running import job.
//	@Tags			Import
//	@Param			jobId		path		string	true	"job id"
//	@Success		200			{object}	model.ImportProgress
//	@Failure		401,404		{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/import/status/:jobId [get]
func (h *ImportHandler) GetImportStatus(c *fiber.Ctx) error {
	jobId := c.Params("jobId", "")
	if jobId == "" || jobId == ":jobId" {
		return response.ResponseError(c, "Invalid jobId", fiber.StatusBadRequest)
	}

	progress, err := service.GetImportProgressCache(jobId)
	if err != nil || progress == nil {
		return response.ResponseError(c, response.JobNotFound, fiber.StatusNotFound)
	}

	return response.ResponseOKWithData(c, progress)
}

//------------------------------------------
//------------------------------------------

// ExportCollection godoc
//
//	@Summary		Export Collection
//	@Description	render the user's collection as a MAL list-exchange XML document.
//	@Tags			Import
//	@Param			mediaType	path	string	true	"anime|manga"
//	@Success		200			{string}	string
//	@Failure		400,401		{object}	response.ResponseErrorModel
//	@Security		BearerAuth
//	@Router			/v1/export/:mediaType [get]
func (h *ImportHandler) ExportCollection(c *fiber.Ctx) error {
	jwtUserData := c.Locals("jwtUserData").(*util.MyJwtClaims)

	mediaType, err := model.ParseMediaType(c.Params("mediaType", ""))
	if err != nil {
		return response.ResponseError(c, response.InvalidMediaType, fiber.StatusBadRequest)
	}

	document, err := h.exportService.ExportCollection(c.Context(), jwtUserData.UserId, mediaType)
	if err != nil {
		if errors.Is(err, service.ErrExportTypeNotSupported) {
			return response.ResponseError(c, err.Error(), fiber.StatusBadRequest)
		}
		return response.ResponseError(c, response.ServerError, fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename=\""+string(mediaType)+"list.xml\"")
	return c.SendString(document)
}
