package main

import (
	"os"

	"github.com/Thucosta0/financepro-sub000/internal/app"
	log "github.com/sirupsen/logrus"
)

// logLevel reads LOG_LEVEL, falling back to info when it is unset.
func logLevel() (log.Level, error) {
	value := os.Getenv("LOG_LEVEL")
	if value == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(value)
}

func main() {
	level, err := logLevel()
	if err != nil {
		log.Fatalf("invalid LOG_LEVEL: %v", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	application, err := app.NewApplication()
	if err != nil {
		log.Fatalf("failed to initialize financepro: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatalf("financepro stopped with error: %v", err)
	}
	log.Info("financepro stopped")
}
