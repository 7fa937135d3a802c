package main

import (
	"log"

	"facedata/internal"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := internal.Listen(); err != nil {
		log.Fatal("listener error: ", err)
	}
}
