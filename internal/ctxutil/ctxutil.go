package ctxutil

import (
	"context"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/google/uuid"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyTeacherID key = iota
	keyTeacherName
	keyRole
)

// WithTeacher /Teacher — прокидываем аутентифицированного преподавателя в контекст
func WithTeacher(ctx context.Context, id uuid.UUID, name string) context.Context {
	ctx = context.WithValue(ctx, keyTeacherID, id)
	return context.WithValue(ctx, keyTeacherName, name)
}

func TeacherID(ctx context.Context) (uuid.UUID, bool) {
	v := ctx.Value(keyTeacherID)
	if v == nil {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func TeacherName(ctx context.Context) (string, bool) {
	v := ctx.Value(keyTeacherName)
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// WithRole /Role — роль из токена (teacher|admin|superadmin)
func WithRole(ctx context.Context, role models.Role) context.Context {
	return context.WithValue(ctx, keyRole, role)
}

func RoleOf(ctx context.Context) (models.Role, bool) {
	v := ctx.Value(keyRole)
	if v == nil {
		return "", false
	}
	r, ok := v.(models.Role)
	return r, ok
}

var (
	DefaultDBTimeout = 5 * time.Second
)

// WithDBTimeout — стандартный таймаут для БД.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		// если у родителя осталось меньше DefaultDBTimeout — берем остаток
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
