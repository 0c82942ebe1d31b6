package main

import (
	"log"
	"time"
	"tracker_collection/api"
	"tracker_collection/configs"
	"tracker_collection/db"
	"tracker_collection/db/redis"
	"tracker_collection/internal/handler"
	"tracker_collection/internal/repository"
	"tracker_collection/internal/service"

	"github.com/getsentry/sentry-go"
)

// @title						Tracker Collection
// @version					1.0
// @description				Collection service of the media tracker project.
// @termsOfService				http://swagger.io/terms/
// @contact.name				API Support
// @contact.url				http://www.swagger.io/support
// @contact.email				support@swagger.io
// @license.name				Apache 2.0
// @license.url				http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath					/
// @schemes					https
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and JWT token.
// @Accept						json
// @Produce					json
func main() {
	configs.LoadEnvVariables()

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              configs.GetConfigs().SentryDns,
		Release:          configs.GetConfigs().SentryRelease,
		TracesSampleRate: 1,
		EnableTracing:    true,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	// Flush buffered events before the program terminates.
	defer sentry.Flush(2 * time.Second)

	go redis.ConnectRedis()

	database, err := db.NewDatabase()
	if err != nil {
		log.Fatalf("could not initialize database connection: %s", err)
	}

	userRepo := repository.NewUserRepository(database.GetDB())
	catalogRepo := repository.NewCatalogRepository(database.GetDB())
	collectionRepo := repository.NewCollectionRepository(database.GetDB())

	userSvc := service.NewUserService(userRepo)
	collectionSvc := service.NewCollectionService(collectionRepo, catalogRepo)
	metadataSvc := service.NewMetadataService()
	resolverSvc := service.NewTitleResolverService(catalogRepo, metadataSvc)
	importSvc := service.NewImportService(resolverSvc, collectionSvc)
	emailSvc := service.NewEmailService()
	exportSvc := service.NewExportService(collectionRepo, userRepo)

	importQueueSvc, err := service.NewImportQueueService(importSvc, emailSvc)
	if err != nil {
		log.Fatalf("could not initialize rabbitmq connection: %s", err)
	}
	defer importQueueSvc.Close()
	if err := importQueueSvc.StartConsumer(); err != nil {
		log.Fatalf("could not start import job consumer: %s", err)
	}

	userHandler := handler.NewUserHandler(userSvc)
	collectionHandler := handler.NewCollectionHandler(collectionSvc)
	importHandler := handler.NewImportHandler(importQueueSvc, exportSvc, userSvc)

	api.InitRouter(userHandler, collectionHandler, importHandler)
	api.Start("0.0.0.0:" + configs.GetConfigs().Port)
}
