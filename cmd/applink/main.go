package main

import (
	"log"

	"github.com/EOPeakDesigns/applink/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ applink failed to start: %v", err)
	}
}
