// Command issuetoken mints an operator JWT for the wallet API using the
// service's own jwt.* configuration.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"chappi-wallet/config"
	"chappi-wallet/internal/service"
)

func main() {
	subject := flag.String("subject", "", "operator identity carried in the token (required)")
	expiry := flag.Duration("expiry", 0, "token lifetime; defaults to jwt.expiry")
	cfgPath := flag.String("config", os.Getenv("CHAPPI_CONFIG"), "config file path")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "issuetoken: -subject is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issuetoken: loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "issuetoken: jwt.secret is not configured")
		os.Exit(1)
	}

	lifetime := cfg.JWT.Expiry
	if *expiry > 0 {
		lifetime = *expiry
	}

	token, expiresAt, err := service.NewJWTTokenService(cfg.JWT.Secret, lifetime, cfg.JWT.Issuer).Generate(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issuetoken: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires %s\n", expiresAt.UTC().Format(time.RFC3339))
}
