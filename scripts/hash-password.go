package main

import (
	"fmt"
	"os"

	"github.com/ineffable/agency-server/internal/util"
)

// Prints a bcrypt hash for BOOTSTRAP_ADMIN_PASSWORD_HASH.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go <password>\n")
		os.Exit(1)
	}

	hasher, err := util.NewPasswordHasher(util.DefaultPasswordCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hash, err := hasher.Hash(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
