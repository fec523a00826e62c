package config

import (
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

type (
	VerdaConfig struct {
		Api        ApiConfig        `yaml:"api"`
		Server     ServerConfig     `yaml:"server"`
		FileSystem FilesystemConfig `yaml:"fileSystem"`
		Database   DatabaseConfig   `yaml:"database"`
		Defaults   DefaultsConfig   `yaml:"defaults"`
		Deployment DeploymentConfig `yaml:"deployment"`
	}

	ApiConfig struct {
		BaseUrl string `yaml:"baseUrl"`
	}

	ServerConfig struct {
		Host string `yaml:"host"`
		Port uint   `yaml:"port"`
	}

	FilesystemConfig struct {
		Run string `yaml:"run"`
	}

	DatabaseConfig struct {
		LocalFile string `yaml:"localFile"`
	}

	DefaultsConfig struct {
		Project        string `yaml:"project"`
		GpuType        string `yaml:"gpuType"`
		GpuCount       int    `yaml:"gpuCount"`
		Location       string `yaml:"location"`
		Image          string `yaml:"image"`
		HostnamePrefix string `yaml:"hostnamePrefix"`
		VolumeId       string `yaml:"volumeId"`
		VolumeSize     int    `yaml:"volumeSize"`
		ScriptId       string `yaml:"scriptId"`
	}

	DeploymentConfig struct {
		ReadyTimeout int  `yaml:"readyTimeout"`
		PollInterval int  `yaml:"pollInterval"`
		UseSpot      bool `yaml:"useSpot"`
	}
)

func Load(fileName string) *VerdaConfig {
	config := defaultConfig()

	if configData, err := os.ReadFile(fileName); err != nil {
		log.Warn("Failed to load configuration file.", "path", fileName)
		data, err := yaml.Marshal(&config)
		err = os.WriteFile(fileName, data, 0755)
		if err != nil {
			log.Error("Failed to write default configuration file.", "path", fileName)
		}
	} else if err := yaml.Unmarshal(configData, &config); err != nil {
		log.Error("Failed to parse configuration file.", "error", err.Error())
	}

	return config
}

func defaultConfig() *VerdaConfig {
	return &VerdaConfig{
		Api: ApiConfig{
			BaseUrl: "https://api.verda.cloud/v1",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 3000,
		},
		FileSystem: FilesystemConfig{
			Run: "./run/",
		},
		Database: DatabaseConfig{
			LocalFile: "./deployments.db",
		},
		Defaults: DefaultsConfig{
			Project:        "",
			GpuType:        "B300",
			GpuCount:       1,
			Location:       "FIN-03",
			Image:          "ubuntu-24.04-cuda-12.8-open-docker",
			HostnamePrefix: "spot-gpu",
			VolumeId:       "",
			VolumeSize:     150,
			ScriptId:       "",
		},
		Deployment: DeploymentConfig{
			ReadyTimeout: 600,
			PollInterval: 10,
			UseSpot:      true,
		},
	}
}
