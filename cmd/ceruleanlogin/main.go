package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/ras0q/lazycerulean/internal/auth"
	"github.com/ras0q/lazycerulean/internal/matrix"
	"golang.org/x/term"
)

func main() {
	_ = godotenv.Load()

	homeserver := flag.String("homeserver", os.Getenv("CERULEAN_HOMESERVER"), "homeserver URL, e.g. https://matrix.org")
	user := flag.String("user", "", "user ID or localpart")
	flag.Parse()

	if err := login(context.Background(), *homeserver, *user); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func login(ctx context.Context, homeserver, user string) error {
	stdin := bufio.NewReader(os.Stdin)

	if homeserver == "" {
		v, err := prompt(stdin, "Homeserver: ")
		if err != nil {
			return err
		}
		homeserver = v
	}

	if user == "" {
		v, err := prompt(stdin, "User: ")
		if err != nil {
			return err
		}
		user = v
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	token, userID, err := matrix.Login(ctx, homeserver, user, string(password))
	if err != nil {
		return err
	}

	store, err := auth.SetToken(homeserver, token)
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	fmt.Printf("Logged in as %s (token saved to %s)\n", userID, store)

	return nil
}

func prompt(r *bufio.Reader, label string) (string, error) {
	fmt.Print(label)

	line, err := r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(label, ": "), err)
	}

	return strings.TrimSpace(line), nil
}
