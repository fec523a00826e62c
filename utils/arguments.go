package utils

import "flag"

type CommandLineArguments struct {
	ConfigFile      *string
	DevelopmentMode *bool
}

func ParseArguments() *CommandLineArguments {
	cmdArgs := &CommandLineArguments{
		flag.String("config", "./config.default.yml", "Path to the configuration file"),
		flag.Bool("dev", false, "Whether to start the backend in development mode"),
	}
	flag.Parse()

	return cmdArgs
}
