package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/promhippie/jenkins_client/pkg/command"
)

func main() {
	_ = godotenv.Load()

	if err := command.Run(); err != nil {
		os.Exit(1)
	}
}
