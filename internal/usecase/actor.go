package usecase

import (
	"context"
	"errors"

	"clinic-scheduling-api/internal/delivery/http/middleware"
	"clinic-scheduling-api/internal/domain/entity"
)

// ErrNoActor means the request reached a usecase without passing through
// authentication. It is a server fault, not a client error.
var ErrNoActor = errors.New("actor not found in context")

func actorFrom(ctx context.Context) (entity.Actor, error) {
	actor, ok := middleware.GetActorFromContext(ctx)
	if !ok {
		return entity.Actor{}, ErrNoActor
	}
	return actor, nil
}
