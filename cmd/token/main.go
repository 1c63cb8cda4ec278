// Command token mints an access token for the API. There is no login flow;
// operators hand tokens out with this tool.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
)

func main() {
	var (
		subject = flag.String("sub", "", "token subject; the employee ID for employee tokens")
		role    = flag.String("role", string(jwt.RoleEmployee), "admin, manager or employee")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if *subject == "" {
		log.Fatal("-sub is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret).IssueAccessToken(*subject, jwt.Role(*role), *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}

	fmt.Println(token)
	log.Printf("expires at %s", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
