// Command hash-gen prints a bcrypt hash for ADMIN_PASSWORD style seeding,
// or checks a password against an existing hash.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"dealhub.backend/pkg/crypto"
)

var errUsage = errors.New("usage: hash-gen [-check <hash>] <password>")

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-gen", flag.ContinueOnError)
	fs.SetOutput(out)
	check := fs.String("check", "", "verify the password against this hash instead of hashing it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		return errUsage
	}
	password := fs.Arg(0)

	if *check != "" {
		if !crypto.CheckPassword(password, *check) {
			return errors.New("password does not match hash")
		}
		fmt.Fprintln(out, "match")
		return nil
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	fmt.Fprintln(out, hash)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
