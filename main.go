package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

//	@title						HBNB API
//	@version					1.0
//	@description				REST API of the hbnb rental clone.
//	@BasePath					/api/v1
//	@schemes					http
//	@produce					json
//	@accept						json

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Warning: error loading .env file:", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	consoleCmd := newConsoleCmd()
	root := &cobra.Command{
		Use:          "hbnb",
		Short:        "hbnb command interpreter and REST API",
		SilenceUsage: true,
		// The interpreter is the default entry point.
		RunE: consoleCmd.RunE,
	}
	root.AddCommand(consoleCmd, newAPICmd())
	return root
}
