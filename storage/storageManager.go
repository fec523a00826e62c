package storage

import (
	"os"
	"path"

	"github.com/charmbracelet/log"
	cp "github.com/otiai10/copy"
	"gopkg.in/yaml.v3"

	"verdaBackend/config"
	"verdaBackend/utils"
)

type (
	// StorageManager owns the run directory. Every deployment gets its own
	// record directory holding the request, the outcome and a copy of the
	// configuration it was started with.
	StorageManager interface {
		CreateRunRecord(deploymentId string) error
		WriteArtifact(deploymentId string, fileName string, content any) error
		SnapshotConfig(deploymentId string, configPath string) error
		DeleteRunRecord(deploymentId string) error
		RunPath(deploymentId string) string
	}

	storageManager struct {
		runPath string
	}
)

func CreateStorageManager(config *config.VerdaConfig) StorageManager {
	manager := &storageManager{
		runPath: config.FileSystem.Run,
	}

	manager.setupDirectories()

	return manager
}

func (s *storageManager) CreateRunRecord(deploymentId string) error {
	return os.MkdirAll(s.RunPath(deploymentId), 0755)
}

func (s *storageManager) WriteArtifact(deploymentId string, fileName string, content any) error {
	data, err := yaml.Marshal(content)
	if err != nil {
		return err
	}

	return os.WriteFile(path.Join(s.RunPath(deploymentId), fileName), data, 0644)
}

func (s *storageManager) SnapshotConfig(deploymentId string, configPath string) error {
	target := path.Join(s.RunPath(deploymentId), "config.yml")

	return cp.Copy(configPath, target, cp.Options{Sync: true})
}

func (s *storageManager) DeleteRunRecord(deploymentId string) error {
	return os.RemoveAll(s.RunPath(deploymentId))
}

func (s *storageManager) RunPath(deploymentId string) string {
	return path.Join(s.runPath, deploymentId)
}

func (s *storageManager) setupDirectories() {
	if err := os.MkdirAll(s.runPath, 0755); err != nil {
		log.Fatal("Failed to create run directory. Exiting.", "path", s.runPath)
	}

	if !utils.IsDirectoryWritable(s.runPath) {
		log.Fatal("Run directory is not writable. Exiting.", "path", s.runPath)
	}
}
