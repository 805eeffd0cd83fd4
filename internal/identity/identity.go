// Package identity works out which user a request belongs to.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned when no resolver in the chain produced a user id.
var ErrNoIdentity = errors.New("user id not found")

// Trust describes how much the resolved user id can be relied on.
type Trust int

const (
	TrustNone Trust = iota
	// TrustClientAsserted ids come straight from the request body.
	TrustClientAsserted
	// TrustUnverified ids come from a bearer token whose signature was not checked.
	TrustUnverified
	// TrustVerified ids come from claims checked by an authorizer or the JWT middleware.
	TrustVerified
)

func (t Trust) String() string {
	switch t {
	case TrustVerified:
		return "verified"
	case TrustUnverified:
		return "unverified"
	case TrustClientAsserted:
		return "client_asserted"
	}
	return "none"
}

// Identity is the outcome of a successful resolution.
type Identity struct {
	UserID string
	Trust  Trust
	Source string
}

// Request is the part of an incoming request the resolvers look at.
type Request struct {
	Context    context.Context
	Method     string
	AuthHeader string
	Body       []byte
}

// Resolver extracts a user id from one source.
type Resolver interface {
	Name() string
	Trust() Trust
	Resolve(r *Request) (string, bool)
}

// Chain tries its resolvers in order and returns the first hit.
type Chain struct {
	resolvers []Resolver
}

// Options toggles the lower-trust resolvers.
type Options struct {
	AllowUnverifiedTokens bool
	AllowBodyUserID       bool
}

// NewChain builds the default chain: verified claims, then unverified bearer
// tokens, then the body user_id of POST requests.
func NewChain(opts Options) *Chain {
	resolvers := []Resolver{VerifiedClaims{}}
	if opts.AllowUnverifiedTokens {
		resolvers = append(resolvers, UnverifiedBearer{})
	}
	if opts.AllowBodyUserID {
		resolvers = append(resolvers, BodyUserID{})
	}
	return &Chain{resolvers: resolvers}
}

// Resolve returns ErrNoIdentity when every resolver comes up empty.
func (c *Chain) Resolve(r *Request) (Identity, error) {
	for _, res := range c.resolvers {
		if uid, ok := res.Resolve(r); ok {
			return Identity{UserID: uid, Trust: res.Trust(), Source: res.Name()}, nil
		}
	}
	return Identity{}, ErrNoIdentity
}

// ─── Resolvers ──────────────────────────────────────────────────────────────

// VerifiedClaims reads "sub" from claims attached to the request context.
type VerifiedClaims struct{}

func (VerifiedClaims) Name() string { return "claims" }
func (VerifiedClaims) Trust() Trust { return TrustVerified }

func (VerifiedClaims) Resolve(r *Request) (string, bool) {
	if r.Context == nil {
		return "", false
	}
	claims, ok := ClaimsFromContext(r.Context)
	if !ok {
		return "", false
	}
	return subject(claims)
}

// UnverifiedBearer decodes the bearer token payload without checking its signature.
type UnverifiedBearer struct{}

func (UnverifiedBearer) Name() string { return "bearer" }
func (UnverifiedBearer) Trust() Trust { return TrustUnverified }

func (UnverifiedBearer) Resolve(r *Request) (string, bool) {
	token := BearerToken(r.AuthHeader)
	if token == "" {
		return "", false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	return subject(claims)
}

// BodyUserID reads user_id from the JSON body of POST requests.
type BodyUserID struct{}

func (BodyUserID) Name() string { return "body" }
func (BodyUserID) Trust() Trust { return TrustClientAsserted }

func (BodyUserID) Resolve(r *Request) (string, bool) {
	if r.Method != http.MethodPost || len(r.Body) == 0 {
		return "", false
	}
	var body struct {
		UserID any `json:"user_id"`
	}
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return "", false
	}
	return stringID(body.UserID)
}

// BearerToken strips the "Bearer " scheme from an Authorization header value.
// A header without a scheme is returned as is.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

func subject(claims jwt.MapClaims) (string, bool) {
	return stringID(claims["sub"])
}

func stringID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	case float64:
		return fmt.Sprint(id), true
	case json.Number:
		return id.String(), true
	}
	return "", false
}

// ─── Context ────────────────────────────────────────────────────────────────

type claimsKey struct{}

// WithClaims attaches verified claims to ctx.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.MapClaims)
	return claims, ok && claims != nil
}
