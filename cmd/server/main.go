package main

import (
	"os"

	"github.com/yukikurage/group-task-api/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
