package api

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"tracker_collection/api/middleware"
	"tracker_collection/configs"
	"tracker_collection/internal/handler"
	"tracker_collection/pkg/response"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

var router *fiber.App

func InitRouter(userHandler *handler.UserHandler, collectionHandler *handler.CollectionHandler, importHandler *handler.ImportHandler) {
	var defaultErrorHandler = func(c *fiber.Ctx, err error) error {
		// Status code defaults to 500
		code := fiber.StatusInternalServerError

		// Retrieve the custom status code if it's a *fiber.Error
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

		if !strings.Contains(err.Error(), "/favicon.ico") && code >= 500 {
			fmt.Println(err.Error())
		}

		return response.ResponseError(c, "Internal Error", code)
	}

	router = fiber.New(fiber.Config{
		UnescapePath: true,
		BodyLimit:    20 * 1024 * 1024,
		ErrorHandler: defaultErrorHandler,
	})

	router.Use(helmet.New())
	router.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return middleware.LocalhostRegex.MatchString(origin) ||
				slices.Index(configs.GetConfigs().CorsAllowedOrigins, origin) != -1
		},
		AllowCredentials: true,
	}))
	router.Use(timeoutMiddleware(time.Second * 10))
	router.Use(recover.New())
	router.Use(compress.New())

	router.Use(fibersentry.New(fibersentry.Config{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	userRoutes := router.Group("v1/user")
	{
		userRoutes.Post("/signup", userHandler.RegisterUser)
		userRoutes.Post("/login", userHandler.LoginUser)
		userRoutes.Put("/token", userHandler.RefreshTokens)
		userRoutes.Get("/profile", middleware.AuthMiddleware, userHandler.GetProfile)
	}

	collectionRoutes := router.Group("v1/collection")
	{
		collectionRoutes.Put("/add/:mediaType/:mediaId", middleware.AuthMiddleware, collectionHandler.UpsertCollectionEntry)
		collectionRoutes.Delete("/remove/:mediaType/:mediaId", middleware.AuthMiddleware, collectionHandler.RemoveCollectionEntry)
		collectionRoutes.Get("/list/:mediaType", middleware.AuthMiddleware, collectionHandler.GetCollection)
		collectionRoutes.Get("/check/:mediaType/:mediaId", middleware.AuthMiddleware, collectionHandler.CheckInCollection)
		collectionRoutes.Get("/ratings/:mediaType", middleware.AuthMiddleware, collectionHandler.GetRatingDistribution)
		collectionRoutes.Get("/summary", middleware.AuthMiddleware, collectionHandler.GetCollectionSummary)
	}

	importRoutes := router.Group("v1/import")
	{
		importRoutes.Post("/mal", middleware.AuthMiddleware, importHandler.StartImport)
		importRoutes.Get("/status/:jobId", middleware.AuthMiddleware, importHandler.GetImportStatus)
	}

	router.Get("/v1/export/:mediaType", middleware.AuthMiddleware, importHandler.ExportCollection)

	router.Get("/", HealthCheck)
	router.Get("/metrics", monitor.New())

	router.Get("/swagger/*", swagger.HandlerDefault) // default
}

func Start(addr string) error {
	return router.Listen(addr)
}

func timeoutMiddleware(timeout time.Duration) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {

		// wrap the request context with a timeout
		ctx, cancel := context.WithTimeout(c.Context(), timeout)

		defer func() {
			// check if context timeout was reached
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.SendStatus(fiber.StatusGatewayTimeout)
			}

			//cancel to clear resources after finished
			cancel()
		}()

		return c.Next()
	}
}

// HealthCheck godoc
//
//	@Summary		Show the status of server.
//	@Description	get the status of server.
//	@Tags			System
//	@Success		200	{object}	map[string]interface{}
//	@Router			/ [get]
func HealthCheck(c *fiber.Ctx) error {
	res := map[string]interface{}{
		"data": "Server is up and running",
	}

	if err := c.JSON(res); err != nil {
		return err
	}

	return nil
}
