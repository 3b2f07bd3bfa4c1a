package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/todolist/core/cmd/api/commands"
)

// @title ToDoList API
// @version 1.0
// @description Personal to-do list service with categories, filtering, notifications and CSV export

// @contact.name ToDoList Support
// @contact.url https://github.com/todolist/core

// @license.name MIT
// @license.url https://github.com/todolist/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "todolist",
		Short: "ToDoList API Server",
		Long:  `ToDoList is a personal task management service with categories, filtering and sorting, due-date notifications, statistics and CSV export.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
