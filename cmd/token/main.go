// Command token prints an admin bearer token, or a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"libraryapi/internal/config"
	"libraryapi/internal/platform/crypto"
)

func main() {
	var (
		hash    = flag.String("hash", "", "print the bcrypt hash of this password and exit")
		subject = flag.String("sub", "admin", "token subject")
	)
	flag.Parse()

	if *hash != "" {
		h, err := crypto.HashPassword(*hash)
		if err != nil {
			fatal(err)
		}
		fmt.Println(h)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if cfg.AdminJWTSecret == "" {
		fatal(fmt.Errorf("ADMIN_JWT_SECRET is not set"))
	}

	token, _, err := crypto.GenerateToken(cfg.AdminJWTSecret, *subject, crypto.RoleAdmin, cfg.AdminTokenTTL)
	if err != nil {
		fatal(err)
	}
	fmt.Println(token)
}

func fatal(err error) {
	slog.Error("token failed", "error", err)
	os.Exit(1)
}
