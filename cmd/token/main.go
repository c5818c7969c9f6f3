// Command token mints a bearer token for local use of the API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/subscription"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	user := fs.String("user", cfg.TUI.UserID, "user id placed in the token subject")
	plan := fs.String("plan", cfg.TUI.Plan, "subscription plan: basic, plus or premium")
	ttl := fs.Duration("ttl", cfg.Auth.TokenTTL, "token lifetime")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *user == "" {
		return fmt.Errorf("-user is required")
	}

	if p := subscription.ActivePlan(*plan); p.ID != *plan {
		return fmt.Errorf("unknown plan %q", *plan)
	}

	token, err := auth.NewToken(cfg.Auth.JWTSecret, *user, *plan, *ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)

	return nil
}
