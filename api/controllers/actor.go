package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/campuslend/campuslend-backend/api/middleware"
	"github.com/campuslend/campuslend-backend/pkg/enums"
	pkgerrors "github.com/campuslend/campuslend-backend/pkg/errors"
)

type actor struct {
	ID   uuid.UUID
	Role enums.Role
}

func actorFromRequest(r *http.Request) (actor, error) {
	rawID := middleware.UserIDFromContext(r.Context())
	if rawID == "" {
		return actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid role")
	}
	return actor{ID: id, Role: role}, nil
}
