package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"urlshortener/internal/auth"
	"urlshortener/internal/config"
	"urlshortener/internal/database"
)

const usage = `usage: cli <command> [args]

commands:
  account add <username>   register an account that may own short urls
  token <username>         print a bearer token for the account
  export                   dump mappings and click logs as JSON to stdout
  import -file <path>      restore a dump, skipping codes that already exist`

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, cmd string, args []string) error {
	if cmd == "token" {
		if len(args) != 1 {
			return fmt.Errorf("token: expected <username>")
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required to issue tokens")
		}
		token, expires, err := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL).Issue(args[0])
		if err != nil {
			return err
		}
		fmt.Println(token)
		slog.Info("Token issued", "username", args[0], "expires", expires.Format(time.RFC3339))
		return nil
	}

	if cfg.DatabaseURL == config.MemoryDatabase {
		return fmt.Errorf("the in-memory store cannot be managed from the cli")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	switch cmd {
	case "account":
		if len(args) != 2 || args[0] != "add" {
			return fmt.Errorf("account: expected add <username>")
		}
		if err := db.CreateAccount(ctx, args[1]); err != nil {
			return err
		}
		slog.Info("Account ready", "username", args[1])
		return nil
	case "export":
		return doExport(ctx, db, os.Stdout)
	case "import":
		importCmd := flag.NewFlagSet("import", flag.ContinueOnError)
		importFile := importCmd.String("file", "", "JSON file to import")
		if err := importCmd.Parse(args); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.PrintDefaults()
			return fmt.Errorf("import: -file is required")
		}
		file, err := os.Open(*importFile)
		if err != nil {
			return fmt.Errorf("open %s: %w", *importFile, err)
		}
		defer file.Close()
		imported, err := doImport(ctx, db, file)
		if err != nil {
			return err
		}
		slog.Info("Import finished", "mappings", imported)
		return nil
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
