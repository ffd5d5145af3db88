package main

import (
	"log"

	_ "pmboard/docs"
	"pmboard/internal/config"
	"pmboard/internal/server"
)

// @title           Project Board API
// @version         1.0
// @description     Multi-tenant kanban board service with an AI assistant.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name pm_session
// @description Opaque session token issued at login.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("Server initialization failed: %v", err)
	}

	s.Run()
}
