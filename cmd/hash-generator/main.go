// Command hash-generator prints bcrypt hashes for seeding users, such as the
// first admin account, directly into the database.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/autolist-api/internal/service/auth"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run hashes every --password value, or one password per line from in when none is given.
func run(args []string, in io.Reader, out io.Writer) error {
	fs := pflag.NewFlagSet("hash-generator", pflag.ContinueOnError)
	passwords := fs.StringArrayP("password", "p", nil, "password to hash (repeatable); reads stdin when omitted")
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(*passwords) == 0 {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
				*passwords = append(*passwords, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read passwords: %w", err)
		}
	}

	hasher := auth.NewBcryptHasher(*cost)
	for _, password := range *passwords {
		hash, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Fprintln(out, hash)
	}
	return nil
}
