package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Actor is the caller a request runs on behalf of, resolved once by the auth middleware.
type Actor struct {
	UserID uuid.UUID
	Role   string
	Status string
}

func (a Actor) Authenticated() bool { return a.UserID != uuid.Nil }

// IsApproved treats a missing status as approved.
func (a Actor) IsApproved() bool {
	return a.Status == "" || a.Status == StatusApproved
}

func (a Actor) IsInstructor() bool {
	return a.Authenticated() && a.Role == RoleInstructor && a.IsApproved()
}

type requestDataKey struct{}

type RequestData struct {
	TokenString string
	UserID      uuid.UUID
	Role        string
	Status      string
}

func (rd *RequestData) Actor() Actor {
	if rd == nil {
		return Actor{}
	}
	return Actor{UserID: rd.UserID, Role: rd.Role, Status: rd.Status}
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// ActorFrom returns the zero Actor when no request data is attached.
func ActorFrom(ctx context.Context) Actor {
	return GetRequestData(ctx).Actor()
}

// WithActor attaches an actor without a token, for jobs and tests.
func WithActor(ctx context.Context, a Actor) context.Context {
	return WithRequestData(ctx, &RequestData{UserID: a.UserID, Role: a.Role, Status: a.Status})
}
