package core

import "github.com/golang-jwt/jwt/v4"

// Claims /logs 讀取權杖
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

const ClaimScopeLogsRead = "logs:read"
