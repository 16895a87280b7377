package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleTeacher    Role = "teacher"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// CanManage — админские операции (сводки, CRUD преподавателей, рассылки).
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Known — роль из известного набора; всё остальное отклоняем на входе.
func (r Role) Known() bool {
	return r == RoleTeacher || r == RoleAdmin || r == RoleSuperAdmin
}

type Teacher struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	Email    string    `db:"email"`
	Role     Role      `db:"role"`
	Subjects []string  `db:"subjects"`
	ColorTag string    `db:"color_tag"`
	IsActive bool      `db:"is_active"`

	CreatedAt time.Time `db:"created_at"`
}
