package utils

import "context"

type actorKey struct{}

// WithActor anota o contexto com o usuário autenticado (vai para user_id na auditoria).
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func ActorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}
