// Command issue-token mints an access token signed with the configured key,
// for local development and smoke tests against a running api.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/campusnet/campusnet/shared/config"
	"github.com/campusnet/campusnet/shared/domain"
	"github.com/campusnet/campusnet/shared/jwt"
)

func main() {
	var (
		configFolder string
		user         domain.User
	)
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.Int64Var(&user.Id, "id", 0, "user id")
	flag.StringVar(&user.Email, "email", "", "user email")
	flag.BoolVar(&user.Admin, "admin", false, "issue an admin token")
	flag.Parse()

	if user.Id <= 0 {
		log.Fatal("-id must be a positive user id")
	}

	cfg := config.MustLoad(configFolder)
	token, err := jwt.New(cfg.JwtKey(), cfg.JwtTTL()).NewToken(user)
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println("=================================================")
	fmt.Printf("  Access token for user %d (admin: %t)\n", user.Id, user.Admin)
	fmt.Println("=================================================")
	fmt.Println(token)
	fmt.Println()
	fmt.Printf("Valid for %s. Send it as:\n", cfg.JwtTTL())
	fmt.Printf("Authorization: Bearer %s\n", token)
}
