package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lawbuddy/lawbuddy-api/api/handlers"
	"github.com/lawbuddy/lawbuddy-api/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil {
		zap.S().With(err).Fatal("failed to initialize lawbuddy-api")
	}

	zap.S().Infow("lawbuddy-api is up and running",
		"port", a.Config.Port,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
