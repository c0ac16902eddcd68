package main

import (
	"github.com/JonMunkholm/inventory/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
