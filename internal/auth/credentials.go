// Package auth stores the API token used by the notes client.
package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/idilsaglam/notes/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"

	// TokenEnv overrides any stored token.
	TokenEnv = "NOTES_TOKEN"
	// HomeEnv relocates the state directory (default ~/.notes).
	HomeEnv = "NOTES_HOME"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // optional
}

// Dir returns the per-user state directory.
func Dir() (string, error) {
	if d := strings.TrimSpace(os.Getenv(HomeEnv)); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".notes"), nil
}

func credFilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// GetToken returns the active token, or nil when not logged in.
func GetToken() (*TokenInfo, error) {
	// 1) env override
	env := strings.TrimSpace(os.Getenv(TokenEnv))
	if env != "" {
		return &TokenInfo{Token: stripBearer(env), Source: "env"}, nil
	}

	// 2) file
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	ti, found, err := jsonstore.Load[TokenInfo](p)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}
	if !found {
		return nil, nil
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// SetToken saves token to the credentials file (0600 in a 0700 directory).
func SetToken(token string, expires *time.Time) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	p, err := credFilePath()
	if err != nil {
		return err
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: time.Now(),
		ExpiresAt: expires,
	}
	return jsonstore.Save(p, ti, 0o700, 0o600)
}

// DeleteToken removes the credentials file.
func DeleteToken() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	return jsonstore.Remove(p)
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
