package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

var (
	configDir, _ = os.UserConfigDir()
	lcConfigDir  = filepath.Join(configDir, "lazycerulean")
	lcHostFile   = "hosts.json"

	keyringUser = "lazycerulean-user"

	ErrTokenNotFound = errors.New("token not found")
)

type TokenStore int

const (
	TokenStoreUnknown TokenStore = iota
	TokenStoreKeyring
	TokenStoreFile
)

func (s TokenStore) String() string {
	switch s {
	case TokenStoreKeyring:
		return "keyring"
	case TokenStoreFile:
		return "file"
	default:
		return "unknown"
	}
}

// GetToken looks up the access token stored for homeserver, trying the OS
// keyring before hosts.json. It returns ErrTokenNotFound when neither has one.
func GetToken(homeserver string) (*oauth2.Token, TokenStore, error) {
	host, err := hostOf(homeserver)
	if err != nil {
		return nil, TokenStoreUnknown, err
	}

	token, err := getTokenFromKeyring(keyringService(host), keyringUser)
	if err == nil {
		return token, TokenStoreKeyring, nil
	}

	token, err = getTokenFromFile(host)
	if err == nil {
		return token, TokenStoreFile, nil
	}

	if errors.Is(err, ErrTokenNotFound) {
		return nil, TokenStoreUnknown, ErrTokenNotFound
	}

	return nil, TokenStoreUnknown, fmt.Errorf("get token from file: %w", err)
}

func getTokenFromKeyring(service, username string) (*oauth2.Token, error) {
	token, err := keyring.Get(service, username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrTokenNotFound
		}

		return nil, fmt.Errorf("get token from keyring: %w", err)
	}

	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

func getTokenFromFile(host string) (*oauth2.Token, error) {
	f, err := os.OpenInRoot(lcConfigDir, lcHostFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrTokenNotFound
		}

		return nil, fmt.Errorf("open file (%s/%s): %w", lcConfigDir, lcHostFile, err)
	}
	defer f.Close()

	var tokens map[string]string
	if err := json.NewDecoder(f).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("decode file (%s/%s) to json: %w", lcConfigDir, lcHostFile, err)
	}

	token, ok := tokens[host]
	if !ok {
		return nil, ErrTokenNotFound
	}

	return &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}

// SetToken stores token for homeserver in the keyring, or in hosts.json
// when no keyring is available.
func SetToken(homeserver string, token *oauth2.Token) (TokenStore, error) {
	if token == nil {
		return TokenStoreUnknown, fmt.Errorf("token is nil")
	}

	host, err := hostOf(homeserver)
	if err != nil {
		return TokenStoreUnknown, err
	}

	keyringErr := setTokenToKeyring(keyringService(host), keyringUser, token.AccessToken)
	if keyringErr == nil {
		return TokenStoreKeyring, nil
	}

	fileErr := setTokenToFile(host, token.AccessToken)
	if fileErr == nil {
		return TokenStoreFile, nil
	}

	return TokenStoreUnknown, fmt.Errorf("set token to keyring: %v; set token to file: %w", keyringErr, fileErr)
}

func setTokenToKeyring(service, username, token string) error {
	if err := keyring.Set(service, username, token); err != nil {
		return fmt.Errorf("set token to keyring: %w", err)
	}

	return nil
}

func setTokenToFile(host, token string) error {
	if err := os.MkdirAll(lcConfigDir, 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	root, err := os.OpenRoot(lcConfigDir)
	if err != nil {
		return fmt.Errorf("open config dir: %w", err)
	}
	defer root.Close()

	tokens := map[string]string{}
	if data, err := root.ReadFile(lcHostFile); err == nil {
		if err := json.Unmarshal(data, &tokens); err != nil {
			return fmt.Errorf("decode file (%s) to json: %w", lcHostFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("read file (%s): %w", lcHostFile, err)
	}

	tokens[host] = token

	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tokens to json: %w", err)
	}

	if err := root.WriteFile(lcHostFile, data, 0600); err != nil {
		return fmt.Errorf("write file (%s): %w", lcHostFile, err)
	}

	return nil
}

func hostOf(homeserver string) (string, error) {
	u, err := url.Parse(homeserver)
	if err != nil {
		return "", fmt.Errorf("parse homeserver url: %w", err)
	}

	if u.Host == "" {
		return "", fmt.Errorf("homeserver url has no host: %q", homeserver)
	}

	return u.Host, nil
}

func keyringService(host string) string {
	return fmt.Sprintf("lazycerulean-%s", host)
}
