// Command usermgr is an operator tool for the authkeeper database:
// it creates user accounts and revokes sessions without going through
// the HTTP API.
//
// Usage:
//
//	usermgr -d <dsn> create-user <username>
//	usermgr -d <dsn> revoke-sessions <username>
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/models"
	"github.com/dmitrijs2005/authkeeper/internal/repositories/repomanager"
)

func main() {
	dsn := flag.String("d", os.Getenv("DATABASE_DSN"), "PostgreSQL DSN")
	flag.Parse()

	if *dsn == "" || flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: usermgr -d <dsn> {create-user|revoke-sessions} <username>")
		os.Exit(2)
	}

	command, username := flag.Arg(0), flag.Arg(1)

	if err := run(context.Background(), *dsn, command, username); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	fmt.Println("Success!")
}

func run(ctx context.Context, dsn, command, username string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	switch command {
	case "create-user":
		return createUser(ctx, db, rm, username)
	case "revoke-sessions":
		return revokeSessions(ctx, db, rm, username)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func createUser(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, username string) error {
	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user, err := rm.Users(db).Create(ctx, &models.User{Username: username, PasswordHash: string(hash)})
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
	return nil
}

func revokeSessions(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, username string) error {
	user, err := rm.Users(db).GetUserByLogin(ctx, username)
	if err != nil {
		return fmt.Errorf("error finding user: %w", err)
	}

	if err := rm.RefreshTokens(db).DeleteAllForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("error revoking sessions: %w", err)
	}

	fmt.Printf("revoked all sessions of %s\n", user.Username)
	return nil
}
