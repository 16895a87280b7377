package httpapi

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/Spok95/tutorcenter-backend/internal/apperr"
	"github.com/Spok95/tutorcenter-backend/internal/ctxutil"
	"github.com/Spok95/tutorcenter-backend/internal/db"
	"github.com/Spok95/tutorcenter-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

// ключи в c.Locals после requireAuth
const (
	localTeacherID   = "teacherID"
	localTeacherName = "teacherName"
	localRole        = "role"
)

type claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type loginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Pin   string `json:"pin" validate:"required,min=4"`
}

// handleLogin — email+PIN → JWT. PIN выдаёт админ при онбординге.
func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.body(c, &req); err != nil {
		return err
	}

	t, pinHash, err := db.GetTeacherByEmail(c.UserContext(), s.DB, req.Email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			// не раскрываем, существует ли email
			return apperr.Validation("неверные email или PIN")
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(pinHash), []byte(db.HashPin(req.Pin))) != 1 {
		return apperr.Validation("неверные email или PIN")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: t.Name,
		Role: string(t.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   t.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	signed, err := token.SignedString([]byte(s.Cfg.JWTSecret))
	if err != nil {
		return apperr.Storage("подпись токена", err)
	}
	return c.JSON(fiber.Map{"token": signed, "teacher": t})
}

// requireAuth проверяет Bearer-токен и кладёт identity в Locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	h := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(h, "Bearer ") {
		return fiber.NewError(fiber.StatusUnauthorized, "нет токена")
	}
	raw := strings.TrimPrefix(h, "Bearer ")

	var cl claims
	token, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.Cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "плохой токен")
	}

	id, err := uuid.Parse(cl.Subject)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "плохой токен")
	}
	role := models.Role(cl.Role)
	if !role.Known() {
		return fiber.NewError(fiber.StatusUnauthorized, "неизвестная роль")
	}

	c.Locals(localTeacherID, id)
	c.Locals(localTeacherName, cl.Name)
	c.Locals(localRole, role)
	// identity и в контекст запроса — для доменного кода и логов
	c.SetUserContext(ctxutil.WithRole(ctxutil.WithTeacher(c.UserContext(), id, cl.Name), role))
	return c.Next()
}

// requireAdmin — только admin/superadmin.
func (s *Server) requireAdmin(c *fiber.Ctx) error {
	if role, ok := c.Locals(localRole).(models.Role); !ok || !role.CanManage() {
		return fiber.NewError(fiber.StatusForbidden, "только для администраторов")
	}
	return c.Next()
}

func callerID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localTeacherID).(uuid.UUID)
	return id
}

func callerName(c *fiber.Ctx) string {
	name, _ := c.Locals(localTeacherName).(string)
	return name
}

func callerRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(localRole).(models.Role)
	return role
}
