package main

import (
	"github.com/joho/godotenv"

	"github.com/quangdv/declutter/cmd"
)

func main() {
	_ = godotenv.Load()
	cmd.Execute()
}
