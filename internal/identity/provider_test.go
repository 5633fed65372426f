package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/AlibekovAA/jobboard/internal/common/errors"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func validClaims() Claims {
	return Claims{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Picture: "https://example.com/ada.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-a",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestProvider_Resolve_Success(t *testing.T) {
	p := NewProvider(testSecret)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	id, err := p.Resolve(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := Identity{UserID: "user-a", Name: "Ada Lovelace", Email: "ada@example.com", Image: "https://example.com/ada.png"}
	if id != want {
		t.Errorf("expected %+v, got %+v", want, id)
	}
}

func TestProvider_Resolve_WrongSecret(t *testing.T) {
	p := NewProvider(testSecret)
	token := signToken(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), validClaims())

	_, err := p.Resolve(token)
	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestProvider_Resolve_Expired(t *testing.T) {
	p := NewProvider(testSecret)
	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

	_, err := p.Resolve(token)
	if !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestProvider_Resolve_RejectsOtherHMAC(t *testing.T) {
	p := NewProvider(testSecret)
	token := signToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())

	_, err := p.Resolve(token)
	if !errors.Is(err, commonerrors.ErrInvalidTokenSigningMethod) {
		t.Fatalf("expected ErrInvalidTokenSigningMethod, got %v", err)
	}
}

func TestProvider_Resolve_MissingSubject(t *testing.T) {
	p := NewProvider(testSecret)
	claims := validClaims()
	claims.Subject = "  "
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

	_, err := p.Resolve(token)
	if !errors.Is(err, commonerrors.ErrMissingTokenClaims) {
		t.Fatalf("expected ErrMissingTokenClaims, got %v", err)
	}
}

func TestProvider_ResolveHeader(t *testing.T) {
	p := NewProvider(testSecret)
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	id, err := p.ResolveHeader("")
	if err != nil || !id.IsAnonymous() {
		t.Fatalf("expected anonymous identity without error, got %+v, %v", id, err)
	}

	if _, err := p.ResolveHeader("Basic abc"); !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for non-bearer header, got %v", err)
	}

	id, err = p.ResolveHeader("bearer " + token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id.UserID != "user-a" {
		t.Errorf("expected user-a, got %s", id.UserID)
	}
}
