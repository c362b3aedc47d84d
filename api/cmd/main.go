package main

import (
	"log"

	api "github.com/rafa-porto/dev-connect/api"
)

// @title dev-connect API
// @version 1.0
// @description Follows, likes, bookmarks, feeds and messages for a developer social network
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey UserIDHeader
// @in header
// @name X-User-ID
// @description ID of the authenticated user, set by the gateway
func main() {
	if err := api.Run(); err != nil {
		log.Fatal(err)
	}
}
