package main

import (
	"flag"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kahvecikaan/product-catalog-api/internal/auth"
	"github.com/nicholasjackson/env"
	"log"
	"os"
	"strings"
	"time"
)

// Environment variables, shared with the server
var (
	jwtSecret = env.String("JWT_SECRET", false,
		"change-me", "HMAC secret used to sign the token")
	jwtIssuer = env.String("JWT_ISSUER", false,
		"product-api", "Issuer written into the token")
)

func main() {
	// Parse command line flags
	subject := flag.String("subject", "", "Subject (user name) of the token")
	roles := flag.String("roles", string(auth.RoleUser), "Comma separated roles (USER|ADMIN)")
	ttl := flag.Duration("ttl", time.Hour, "How long the token stays valid")
	flag.Parse()

	if *subject == "" {
		flag.Usage()
		os.Exit(1)
	}

	_ = godotenv.Load()
	if err := env.Parse(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var granted []auth.Role
	for _, r := range strings.Split(*roles, ",") {
		role, err := auth.ParseRole(strings.TrimSpace(r))
		if err != nil {
			log.Fatalf("Invalid role %q: must be one of USER, ADMIN", r)
		}
		granted = append(granted, role)
	}

	token, err := auth.NewTokenManager(*jwtSecret, *jwtIssuer).Issue(*subject, *ttl, granted...)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("Bearer token for %s %v, valid for %s:\n", *subject, granted, *ttl)
	fmt.Println(token)
}
