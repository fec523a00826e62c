package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	socketio "github.com/zishang520/socket.io/socket"
	"gorm.io/gorm"

	"verdaBackend/client"
	"verdaBackend/config"
	"verdaBackend/deployment"
	"verdaBackend/domain/catalog"
	"verdaBackend/domain/history"
	"verdaBackend/domain/instance"
	"verdaBackend/domain/monitor"
	"verdaBackend/domain/script"
	"verdaBackend/domain/settings"
	"verdaBackend/domain/volume"
	"verdaBackend/events"
	"verdaBackend/schema"
	"verdaBackend/socket"
	"verdaBackend/storage"
	"verdaBackend/utils"
)

func main() {
	// Load environment variables from .env file if present
	_ = godotenv.Load()

	cmdArgs := utils.ParseArguments()
	isDevMode := *cmdArgs.DevelopmentMode

	log.SetTimeFormat("[2006-01-02 15:04:05]")

	if isDevMode {
		log.SetReportCaller(true)
	}

	configManager := config.CreateManager(*cmdArgs.ConfigFile)
	verdaConfig := configManager.Snapshot()

	apiClient, err := client.CreateClient(verdaConfig.Api.BaseUrl)
	if err != nil {
		log.Fatalf("Failed to create API client: %s", err.Error())
	}

	storageManager := storage.CreateStorageManager(&verdaConfig)
	db := connectToDatabase(&verdaConfig)

	socketManager := socket.CreateSocketManager()
	statusEvents := events.CreateEvent[events.StatusEvent]()
	statusNamespace := socket.CreateOutputNamespace[events.StatusEvent](socketManager, true, "deployment-events")

	forwardStatusEvents := func(event events.StatusEvent) {
		statusNamespace.Send(event)
	}
	statusEvents.Subscribe(&forwardStatusEvents)

	var (
		schemaService = schema.CreateService()
		schemaHandler = schema.CreateHandler(schemaService)

		settingsService = settings.CreateService(configManager)
		settingsHandler = settings.CreateHandler(settingsService)

		historyRepository = history.CreateRepository(db)
		historyService    = history.CreateService(historyRepository)
		historyHandler    = history.CreateHandler(historyService)

		poller            = deployment.CreatePoller(apiClient, statusEvents)
		orchestrator      = deployment.CreateOrchestrator(apiClient, poller, statusEvents)
		deploymentManager = deployment.CreateManager(orchestrator)

		instanceService = instance.CreateService(
			apiClient, configManager, deploymentManager, poller, historyService, storageManager,
		)
		instanceHandler = instance.CreateHandler(instanceService, schemaService)

		volumeService = volume.CreateService(apiClient, configManager)
		volumeHandler = volume.CreateHandler(volumeService)

		scriptService = script.CreateService(apiClient, configManager)
		scriptHandler = script.CreateHandler(scriptService)

		catalogService = catalog.CreateService(apiClient, configManager)
		catalogHandler = catalog.CreateHandler(catalogService)

		monitorService = monitor.CreateService(apiClient, configManager, instanceService, statusEvents)
		monitorHandler = monitor.CreateHandler(monitorService, schemaService)
	)

	go monitorService.RunScheduler()
	defer monitorService.StopScheduler()

	gin.SetMode(gin.ReleaseMode)
	webServer := gin.Default()

	schema.RegisterRoutes(webServer, schemaHandler)
	settings.RegisterRoutes(webServer, settingsHandler)
	instance.RegisterRoutes(webServer, instanceHandler)
	volume.RegisterRoutes(webServer, volumeHandler)
	script.RegisterRoutes(webServer, scriptHandler)
	catalog.RegisterRoutes(webServer, catalogHandler)
	monitor.RegisterRoutes(webServer, monitorHandler)
	history.RegisterRoutes(webServer, historyHandler)

	// Register Socket.IO endpoints
	c := socketio.DefaultServerOptions()
	webServer.GET("/socket.io/*any", gin.WrapH(socketManager.Server().ServeHandler(c)))
	webServer.POST("/socket.io/*any", gin.WrapH(socketManager.Server().ServeHandler(c)))

	var serverWaitGroup sync.WaitGroup
	connection := fmt.Sprintf("%s:%d", verdaConfig.Server.Host, verdaConfig.Server.Port)

	serverWaitGroup.Add(1)
	go startWebServer(webServer, connection, &serverWaitGroup)
	time.Sleep(100)

	log.Info("Verda backend is ready to serve calls!", "conn", connection)
	serverWaitGroup.Wait()
}

// connectToDatabase opens the per-run deployment history database. The file
// is removed first, records never survive a restart.
func connectToDatabase(config *config.VerdaConfig) *gorm.DB {
	log.Info("Connecting to local SQLite database", "path", config.Database.LocalFile)

	_ = os.Remove(config.Database.LocalFile)

	db, err := gorm.Open(sqlite.Open(config.Database.LocalFile), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %s", err.Error())
		os.Exit(1)
	}

	if err := db.AutoMigrate(&history.DeploymentRecord{}); err != nil {
		log.Fatalf("Failed to migrate database: %s", err.Error())
	}

	return db
}

func startWebServer(server *gin.Engine, socket string, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	if err := server.Run(socket); err != nil {
		log.Fatalf("Failed to start web server on %s: %s", socket, err.Error())
	}
}
