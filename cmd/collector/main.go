package main

import (
	"fmt"
	"os"

	"github.com/shanehull/corpbrief/internal/config"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	a := &app{}
	parser := config.NewParser(&a.cfg)
	addCommands(parser, a)

	if _, err := parser.Parse(); err != nil {
		if config.IsHelp(err) {
			return
		}
		os.Exit(1)
	}
}

func newLogger(level string) arbor.ILogger {
	return arbor.NewLogger().WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		DisableTimestamp: false,
	}).WithLevelFromString(level)
}
