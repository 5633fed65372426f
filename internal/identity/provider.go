package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
)

type Claims struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Provider verifies HS256 identity tokens minted by the sign-in front end.
type Provider struct {
	secret []byte
	parser *jwt.Parser
}

func NewProvider(secret string) *Provider {
	return &Provider{
		secret: []byte(secret),
		parser: jwt.NewParser(),
	}
}

func (p *Provider) Resolve(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := p.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, commonerrors.ErrInvalidTokenSigningMethod
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, commonerrors.ErrInvalidTokenSigningMethod) {
			return Identity{}, commonerrors.ErrInvalidTokenSigningMethod.WithCause(err)
		}
		return Identity{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !token.Valid {
		return Identity{}, commonerrors.ErrInvalidToken
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return Identity{}, commonerrors.ErrMissingTokenClaims.WithCause(fmt.Errorf("sub"))
	}

	return Identity{
		UserID: sub,
		Name:   strings.TrimSpace(claims.Name),
		Email:  strings.TrimSpace(claims.Email),
		Image:  strings.TrimSpace(claims.Picture),
	}, nil
}

// ResolveHeader resolves an Authorization header value. An empty header is
// the anonymous caller and not an error.
func (p *Provider) ResolveHeader(header string) (Identity, error) {
	if header == "" {
		return Identity{}, nil
	}
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return Identity{}, commonerrors.ErrInvalidToken.WithCause(errors.New("authorization header is not a bearer token"))
	}
	return p.Resolve(strings.TrimSpace(header[len(prefix):]))
}
