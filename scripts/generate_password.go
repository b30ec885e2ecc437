// Generates a bcrypt hash for manually provisioning operator accounts,
// e.g. when inserting a user row outside the admin API.
//
//	go run scripts/generate_password.go <password> [cost]
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: go run scripts/generate_password.go <password> [cost]")
	}

	password := os.Args[1]
	cost := 12
	if len(os.Args) > 2 {
		parsed, err := strconv.Atoi(os.Args[2])
		if err != nil || parsed < bcrypt.MinCost || parsed > bcrypt.MaxCost {
			log.Fatalf("invalid cost %q (expected %d..%d)", os.Args[2], bcrypt.MinCost, bcrypt.MaxCost)
		}
		cost = parsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		log.Fatal("failed to generate hash:", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		log.Fatal("hash verification failed:", err)
	}

	fmt.Println(string(hash))
}
