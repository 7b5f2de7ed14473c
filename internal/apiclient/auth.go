package apiclient

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"
)

var ErrNoToken = errors.New("login response carried no token")

const MsgBadLogin = "Invalid email or password."

// Login exchanges admin credentials for a bearer token. Failures are returned
// without notifying; the login page words them itself.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.send(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	for _, path := range []string{"token", "accessToken", "data.token", "data.accessToken"} {
		if tok := strings.TrimSpace(gjson.GetBytes(body, path).String()); tok != "" {
			return tok, nil
		}
	}
	return "", ErrNoToken
}

// Identity is what the console shows about the signed-in admin. It is read
// from the token without verifying the signature; only the backend trusts it.
type Identity struct {
	Subject   string
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
}

func (id Identity) Display() string {
	switch {
	case id.Name != "":
		return id.Name
	case id.Email != "":
		return id.Email
	default:
		return id.Subject
	}
}

// Expired reports whether the token carried an exp claim before now.
func (id Identity) Expired(now time.Time) bool {
	return !id.ExpiresAt.IsZero() && now.After(id.ExpiresAt)
}

// ParseIdentity decodes the claims of a JWT bearer token. Opaque tokens
// return an error and an empty identity.
func ParseIdentity(token string) (Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, err
	}
	id := Identity{
		Email: claimString(claims, "email"),
		Name:  claimString(claims, "name"),
		Role:  claimString(claims, "role"),
	}
	if sub, err := claims.GetSubject(); err == nil {
		id.Subject = sub
	}
	if id.Subject == "" {
		id.Subject = claimString(claims, "id")
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}

func claimString(c jwt.MapClaims, key string) string {
	s, _ := c[key].(string)
	return s
}
