// Command accounts manages the linked bank connections: listing, linking new
// banks through the browser Link flow, removing connections and migrating a
// pre-registry legacy token.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/juanegido/finance-tracker/internal/config"
	"github.com/juanegido/finance-tracker/internal/logger"
	"github.com/juanegido/finance-tracker/internal/plaidclient"
	"github.com/juanegido/finance-tracker/internal/registry"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		runList(log, cfg)
	case "add":
		runAdd(log, cfg)
	case "remove":
		runRemove(log, cfg)
	case "link":
		runLink(log, cfg)
	case "migrate":
		runMigrate(log, cfg)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Tracker Accounts")
	fmt.Println("\nUsage:")
	fmt.Println("  accounts <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  list      List all linked bank accounts")
	fmt.Println("  add       Add a bank account from a Link public token")
	fmt.Println("  remove    Remove a linked bank account")
	fmt.Println("  link      Create a Link token and write plaid_link.html")
	fmt.Println("  migrate   Migrate a legacy single-token file into the registry")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'accounts <command> -h' for more information on a command.")
}

// openRegistry wires config, provider client and registry for a subcommand.
func openRegistry(log zerolog.Logger, cfg *config.Config) (*registry.Registry, *plaidclient.Client) {
	if cfg.PlaidClientID == "" || cfg.PlaidSecret == "" {
		log.Fatal().Msg("PLAID_CLIENT_ID and PLAID_SECRET must be set")
	}
	client := plaidclient.New(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)
	reg, err := registry.Open(cfg.AccountsFile, client)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open account registry")
	}
	return reg, client
}

func runList(log zerolog.Logger, cfg *config.Config) {
	reg, _ := openRegistry(log, cfg)

	accounts := reg.List()
	if len(accounts) == 0 {
		fmt.Println("No bank accounts linked")
		return
	}

	fmt.Println("\n=== Linked Bank Accounts ===")
	for _, acc := range accounts {
		fmt.Printf("\nAccount ID:  %s\n", acc.AccountID)
		fmt.Printf("Name:        %s\n", acc.AccountName)
		fmt.Printf("Institution: %s\n", acc.InstitutionName)
		fmt.Printf("Sheet:       %s\n", acc.SheetName)
		fmt.Printf("Created:     %s\n", acc.CreatedAt.Format(time.RFC3339))
		if acc.LastSync != nil {
			fmt.Printf("Last Sync:   %s\n", acc.LastSync.Format(time.RFC3339))
		} else {
			fmt.Printf("Last Sync:   Never\n")
		}
		for _, sub := range acc.Accounts {
			fmt.Printf("  - %s (%s) ****%s\n", sub.Name, sub.Type, sub.Mask)
		}
	}
}

func runAdd(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	publicToken := fs.String("public-token", "", "Public token from a completed Link flow")
	name := fs.String("name", "", "Display name for the account (defaults to the institution name)")
	fs.Parse(os.Args[2:])

	if *publicToken == "" {
		log.Fatal().Msg("Error: --public-token is required")
	}

	reg, client := openRegistry(log, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	accessToken, err := client.ExchangePublicToken(ctx, *publicToken)
	if err != nil {
		if errors.Is(err, plaidclient.ErrLinkExchange) {
			log.Fatal().Err(err).Msg("Token exchange failed, re-run the Link flow and try again")
		}
		log.Fatal().Err(err).Msg("Token exchange failed")
	}

	account, err := reg.Register(ctx, accessToken, *name)
	if err != nil {
		if errors.Is(err, plaidclient.ErrCredentialInvalid) {
			log.Fatal().Err(err).Msg("The provider rejected the credential")
		}
		log.Fatal().Err(err).Msg("Failed to register account")
	}

	fmt.Printf("Added account: %s (%s)\n", account.AccountName, account.InstitutionName)
	fmt.Printf("  Account ID: %s\n", account.AccountID)
	fmt.Printf("  Sheet name: %s\n", account.SheetName)
	fmt.Printf("  Linked accounts: %d\n", len(account.Accounts))
}

func runRemove(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	accountID := fs.String("account-id", "", "ID of the account to remove")
	fs.Parse(os.Args[2:])

	if *accountID == "" {
		log.Fatal().Msg("Error: --account-id is required")
	}

	reg, _ := openRegistry(log, cfg)

	removed, err := reg.Deregister(*accountID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to remove account")
	}
	if !removed {
		fmt.Printf("Account %s not found\n", *accountID)
		os.Exit(1)
	}
	fmt.Printf("Removed account %s\n", *accountID)
}

func runLink(log zerolog.Logger, cfg *config.Config) {
	fs := flag.NewFlagSet("link", flag.ExitOnError)
	userID := fs.String("user-id", "finance-tracker-user", "Client user ID for the Link token")
	out := fs.String("out", "plaid_link.html", "Path of the Link page to write")
	fs.Parse(os.Args[2:])

	_, client := openRegistry(log, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	linkToken, err := client.CreateLinkToken(ctx, *userID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create link token")
	}

	if err := os.WriteFile(*out, []byte(linkPage(linkToken)), 0o644); err != nil {
		log.Fatal().Err(err).Msg("Failed to write link page")
	}

	fmt.Printf("Link token created. Open %s in a browser to connect your bank,\n", *out)
	fmt.Println("then run 'accounts add --public-token <token>' with the public token it prints.")
}

func runMigrate(log zerolog.Logger, cfg *config.Config) {
	reg, _ := openRegistry(log, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	account, migrated, err := reg.MigrateLegacy(ctx, cfg.LegacyTokenFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	if !migrated {
		fmt.Println("Nothing to migrate: no legacy token file found")
		return
	}
	fmt.Printf("Legacy token migrated as %q (sheet %q)\n", account.AccountName, account.SheetName)
}

// linkPage renders a minimal self-serve Link page embedding the token.
// Completing the flow shows the public token to paste into 'accounts add'.
func linkPage(linkToken string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>Link your bank</title>
  <script src="https://cdn.plaid.com/link/v2/stable/link-initialize.js"></script>
</head>
<body>
  <h1>Finance Tracker</h1>
  <button id="link-button">Connect a bank account</button>
  <pre id="result"></pre>
  <script>
    var handler = Plaid.create({
      token: %q,
      onSuccess: function(public_token, metadata) {
        document.getElementById('result').textContent =
          'Public token: ' + public_token + '\n\n' +
          'Run: accounts add --public-token ' + public_token;
      },
      onExit: function(err, metadata) {
        if (err) {
          document.getElementById('result').textContent = 'Link failed: ' + err.display_message;
        }
      }
    });
    document.getElementById('link-button').onclick = function() { handler.open(); };
  </script>
</body>
</html>
`, linkToken)
}
