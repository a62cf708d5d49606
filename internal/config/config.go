package config

import (
	"github.com/urfave/cli/v3"
)

type Config struct {
	App
}

type App struct {
	InputDirectory  string
	OutputDirectory string
	TimestampField  string
	WriteSummary    bool
}

func Load(cmd *cli.Command) *Config {
	return &Config{
		App: App{
			InputDirectory:  cmd.String("input-dir"),
			OutputDirectory: cmd.String("output-dir"),
			TimestampField:  cmd.String("timestamp-field"),
			WriteSummary:    cmd.Bool("summary"),
		},
	}
}
