/*
main.go - Development token generator

PURPOSE:
  Mints a signed session token for local testing. Production tokens come
  from the host identity platform; this tool exists so the API can be
  exercised with curl during development.

EXAMPLES:
  # Logistic manager token
  ./gen-token -user=lm-1 -name="Dana" -role=logistic_manager -secret=dev

  # Driver token
  ./gen-token -user=drv-7 -role=driver -secret=dev
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/warp/tripboard/auth"
)

func main() {
	user := flag.String("user", "dev-user", "Subject identifier")
	name := flag.String("name", "Dev User", "Display name")
	role := flag.String("role", auth.LabelDriver, "Role (driver|logistic_manager|administrator)")
	secret := flag.String("secret", os.Getenv("TRIPBOARD_SECRET"), "token signing secret")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "A signing secret is required: pass -secret or set TRIPBOARD_SECRET")
		os.Exit(1)
	}
	if auth.ParseRole(*role) == auth.RoleUnauthenticated {
		fmt.Fprintf(os.Stderr, "Unknown role %q\n", *role)
		os.Exit(1)
	}

	svc := auth.NewService(*secret, *ttl)
	token, err := svc.IssueToken(*user, *name, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Token generated\n\n")
	fmt.Printf("Subject: %s\n", *user)
	fmt.Printf("Role:    %s\n", *role)
	fmt.Printf("\nToken:\n%s\n", token)
	fmt.Printf("\n💡 Example curl:\n")
	fmt.Printf("curl http://localhost:8080/api/ping \\\n")
	fmt.Printf("  -H 'Authorization: Bearer %s'\n\n", token)
}
