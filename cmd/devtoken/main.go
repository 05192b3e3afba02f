// Command devtoken signs a bearer token for local testing against the auction server.
package main

import (
	"flag"
	"fmt"

	"phoneclubs-auctions/internal/auth"
	"phoneclubs-auctions/internal/config"
	"phoneclubs-auctions/utils"
)

func main() {
	userID := flag.String("user", "", "user id to sign for")
	username := flag.String("name", "", "display name carried in the token")

	cfg, err := config.Parse()
	if err != nil {
		utils.Fatal("configuration error", map[string]any{"error": err.Error()})
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, *userID, *username)
	if err != nil {
		utils.Fatal("failed to sign token", map[string]any{"error": err.Error()})
	}
	fmt.Println(token)
}
