package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	"userkit/internal/cli"
	"userkit/internal/config"
	c "userkit/internal/core/domain/common"
	"userkit/internal/core/domain/user"
	createuser "userkit/internal/core/services/create_user"
	dbuser "userkit/internal/db/user"
	"userkit/internal/implementations/logging"
	passwordhasher "userkit/internal/implementations/password_hasher"

	"github.com/jackc/pgx/v4/pgxpool"
)

func main() {
	superAdmin := flag.Bool("super-admin", false, "grant the super admin role")
	email := flag.String("email", "", "email address to store on the account")
	flag.Parse()

	identifier, password, err := readCredentials(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	logger := logging.NewZapLogger()
	defer logger.Sync()

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, cfg.PostgresqlURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not connect to the database:", err.Error())
		os.Exit(1)
	}
	defer pool.Close()

	service := createuser.New(
		logger,
		dbuser.NewPgxRepository(pool),
		passwordhasher.NewBcrypt(cfg.Secret, cfg.BcryptHasherCost),
		func() time.Time { return time.Now().UTC() },
	)

	input := createuser.Input{
		Identifier:   user.Identifier(identifier),
		Password:     user.RawPassword(password),
		IsSuperAdmin: *superAdmin,
	}
	if *email != "" {
		input.Email = c.NewOptional(c.NewEmail(*email), true)
	}

	result, err := service.Run(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrIdentifierAlreadyExists):
			fmt.Fprintln(os.Stderr, "a user with this identifier already exists")
		case errors.Is(err, user.ErrIdentifierIsEmpty):
			fmt.Fprintln(os.Stderr, "identifier must not be empty")
		case errors.Is(err, user.ErrPasswordIsEmpty):
			fmt.Fprintln(os.Stderr, "password must not be empty")
		default:
			fmt.Fprintln(os.Stderr, "could not create user:", err.Error())
		}
		os.Exit(1)
	}

	fmt.Printf("User %q has been created (id %d).\n", result.User.Identifier, result.User.ID)
}

// readCredentials takes the identifier and the password from the positional
// arguments and prompts for whatever is missing. The password prompt never
// echoes.
func readCredentials(args []string) (identifier string, password string, err error) {
	if len(args) > 0 {
		identifier = args[0]
	}
	if len(args) > 1 {
		password = args[1]
	}

	reader := bufio.NewReader(os.Stdin)
	if identifier == "" {
		identifier, err = cli.GetSimpleText(reader, "Enter user identifier", os.Stdout)
		if err != nil {
			return "", "", err
		}
	}
	if password == "" {
		pw, err := cli.GetPassword(os.Stdout, "Enter password: ")
		if err != nil {
			return "", "", err
		}
		password = strings.TrimSpace(string(pw))
	}
	return identifier, password, nil
}
