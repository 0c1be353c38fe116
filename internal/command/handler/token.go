package command

import (
	"errors"
	"time"

	"botwatch/config"
	"botwatch/internal/core"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/cobra"
)

type TokenHandler struct {
	config *config.Configuration
	now    func() time.Time
}

func NewTokenHandler(config *config.Configuration) *TokenHandler {
	return &TokenHandler{config: config, now: time.Now}
}

// Mint 簽發 /logs 使用的 HS256 token
func (handler *TokenHandler) Mint(subject string, ttl time.Duration) (string, error) {
	if handler.config.Auth.JWTSecret == "" {
		return "", errors.New("AUTH__JWT_SECRET is not set")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}
	now := handler.now()
	claims := core.Claims{
		Scope: core.ClaimScopeLogsRead,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    handler.config.App.Name,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(handler.config.Auth.JWTSecret))
}

func (handler *TokenHandler) Print(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	token, err := handler.Mint(subject, ttl)
	if err != nil {
		return err
	}
	cmd.Println(token)
	return nil
}
