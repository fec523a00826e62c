package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
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
	"verdaBackend/schema"
	"verdaBackend/storage"
	"verdaBackend/utils"
)

// FakeVerdaApi is an in-memory stand-in for the provider API. Tests seed it
// with instances and SSH keys and point the real HTTP client at it.
type FakeVerdaApi struct {
	Server *httptest.Server

	mutex     sync.Mutex
	instances map[string]client.Instance
	sshKeys   []client.SshKey
	images    []client.Image
	scripts   []client.Script
	volumes   []client.Volume
	available bool
}

func createFakeVerdaApi() *FakeVerdaApi {
	api := &FakeVerdaApi{
		instances: make(map[string]client.Instance),
		sshKeys:   []client.SshKey{{Id: "key-1", Name: "agent-key"}},
		images:    []client.Image{{Name: "ubuntu-24.04-cuda-12.8-open-docker", ImageType: "cuda"}},
		available: true,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-access-token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("GET /instances", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()

		instances := make([]client.Instance, 0, len(api.instances))
		for _, entry := range api.instances {
			instances = append(instances, entry)
		}

		_ = json.NewEncoder(w).Encode(instances)
	})

	mux.HandleFunc("POST /instances", func(w http.ResponseWriter, r *http.Request) {
		var request client.CreateInstanceRequest
		_ = json.NewDecoder(r.Body).Decode(&request)

		api.mutex.Lock()
		defer api.mutex.Unlock()

		created := client.Instance{
			Id:           fmt.Sprintf("inst-%d", len(api.instances)+1),
			Hostname:     request.Hostname,
			Status:       client.StatusRunning,
			InstanceType: request.InstanceType,
			Ip:           "10.0.0.42",
			SshPort:      22,
			Location:     request.Location,
			Image:        request.Image,
			IsSpot:       request.IsSpot,
		}
		api.instances[created.Id] = created

		_ = json.NewEncoder(w).Encode(created)
	})

	mux.HandleFunc("GET /instances/{id}", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()

		entry, ok := api.instances[r.PathValue("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_ = json.NewEncoder(w).Encode(entry)
	})

	mux.HandleFunc("POST /instances/{id}/action", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		api.mutex.Lock()
		defer api.mutex.Unlock()

		instanceId := r.PathValue("id")
		if _, ok := api.instances[instanceId]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		if body["action"] == client.ActionDelete {
			delete(api.instances, instanceId)
		}
	})

	mux.HandleFunc("GET /ssh-keys", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()

		_ = json.NewEncoder(w).Encode(api.sshKeys)
	})

	mux.HandleFunc("GET /images", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()

		_ = json.NewEncoder(w).Encode(api.images)
	})

	mux.HandleFunc("GET /scripts", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()

		_ = json.NewEncoder(w).Encode(api.scripts)
	})

	mux.HandleFunc("GET /volumes", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()

		_ = json.NewEncoder(w).Encode(api.volumes)
	})

	mux.HandleFunc("GET /instance-availability/{type}", func(w http.ResponseWriter, r *http.Request) {
		api.mutex.Lock()
		defer api.mutex.Unlock()

		_ = json.NewEncoder(w).Encode(api.available)
	})

	api.Server = httptest.NewServer(mux)

	return api
}

func (f *FakeVerdaApi) AddInstance(entry client.Instance) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.instances[entry.Id] = entry
}

func (f *FakeVerdaApi) HasInstance(instanceId string) bool {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	_, ok := f.instances[instanceId]

	return ok
}

func (f *FakeVerdaApi) SetAvailability(available bool) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.available = available
}

func (f *FakeVerdaApi) ClearSshKeys() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.sshKeys = make([]client.SshKey, 0)
}

// SetupTestServer wires the full route table against a fake provider API and
// an ephemeral database, mirroring the production setup in main.
func SetupTestServer(t *testing.T) (*gin.Engine, *FakeVerdaApi) {
	fakeApi := createFakeVerdaApi()
	t.Cleanup(fakeApi.Server.Close)

	t.Setenv("VERDA_CLIENT_ID", "test-client")
	t.Setenv("VERDA_CLIENT_SECRET", "test-secret")

	workDir := t.TempDir()

	configYaml := fmt.Sprintf(
		"api:\n  baseUrl: %s\nfileSystem:\n  run: %s\ndatabase:\n  localFile: %s\ndeployment:\n  readyTimeout: 5\n  pollInterval: 1\n  useSpot: true\n",
		fakeApi.Server.URL,
		path.Join(workDir, "run"),
		path.Join(workDir, "deployments.db"),
	)

	configPath := path.Join(workDir, "config.yml")
	if err := os.WriteFile(configPath, []byte(configYaml), 0644); err != nil {
		t.Fatalf("Failed to write test config: %s", err.Error())
	}

	configManager := config.CreateManager(configPath)
	verdaConfig := configManager.Snapshot()

	apiClient, err := client.CreateClient(verdaConfig.Api.BaseUrl)
	if err != nil {
		t.Fatalf("Failed to create API client: %s", err.Error())
	}

	storageManager := storage.CreateStorageManager(&verdaConfig)

	db, err := gorm.Open(sqlite.Open(verdaConfig.Database.LocalFile), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %s", err.Error())
	}
	if err := db.AutoMigrate(&history.DeploymentRecord{}); err != nil {
		t.Fatalf("Failed to migrate test database: %s", err.Error())
	}

	var (
		schemaService = schema.CreateService()
		schemaHandler = schema.CreateHandler(schemaService)

		settingsService = settings.CreateService(configManager)
		settingsHandler = settings.CreateHandler(settingsService)

		historyRepository = history.CreateRepository(db)
		historyService    = history.CreateService(historyRepository)
		historyHandler    = history.CreateHandler(historyService)

		poller            = deployment.CreatePoller(apiClient, nil)
		orchestrator      = deployment.CreateOrchestrator(apiClient, poller, nil)
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

		monitorService = monitor.CreateService(apiClient, configManager, instanceService, nil)
		monitorHandler = monitor.CreateHandler(monitorService, schemaService)
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	schema.RegisterRoutes(router, schemaHandler)
	settings.RegisterRoutes(router, settingsHandler)
	instance.RegisterRoutes(router, instanceHandler)
	volume.RegisterRoutes(router, volumeHandler)
	script.RegisterRoutes(router, scriptHandler)
	catalog.RegisterRoutes(router, catalogHandler)
	monitor.RegisterRoutes(router, monitorHandler)
	history.RegisterRoutes(router, historyHandler)

	return router, fakeApi
}

func unmarshalOkResponse[T any](t *testing.T, body []byte) T {
	var result utils.OkResponse[T]
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to parse response payload: %s", err.Error())
	}

	return result.Payload
}
