package identity

import (
	"context"
	"log/slog"
	"strings"

	model "feed-service/internal/domain/models"
	ports "feed-service/internal/domain/ports/output"
	"feed-service/internal/domain/ports/output/auth"
)

const bearerScheme = "Bearer"

// Gate decodes the Authorization header of a request into a RequestContext.
// It never rejects a request: every failure yields an anonymous context.
type Gate struct {
	tokens auth.TokenManager
	log    ports.Logger
}

func NewGate(tokens auth.TokenManager, log ports.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

func (g *Gate) Resolve(authorization string) model.RequestContext {
	if authorization == "" {
		return model.Anonymous()
	}

	scheme, token, _ := strings.Cut(strings.TrimSpace(authorization), " ")
	if !strings.EqualFold(scheme, bearerScheme) {
		g.log.Debug("Malformed authorization header")
		return model.Anonymous()
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return model.Anonymous()
	}

	id, err := g.tokens.Verify(token)
	if err != nil {
		g.log.Debug("Token rejected", slog.String("error", err.Error()))
		return model.Anonymous()
	}

	return model.Authenticated(id)
}

type ctxKey struct{}

func NewContext(ctx context.Context, rc model.RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// FromContext returns the RequestContext stored by NewContext, or an
// anonymous one.
func FromContext(ctx context.Context) model.RequestContext {
	rc, ok := ctx.Value(ctxKey{}).(model.RequestContext)
	if !ok {
		return model.Anonymous()
	}
	return rc
}
