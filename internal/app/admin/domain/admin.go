package domain

import (
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AdminUser is an operator of the catalog admin surface. There are no
// sessions here; the aggregate carries identity, credentials and the
// role the permission table keys on.
type AdminUser struct {
	id           string
	email        string
	name         string
	passwordHash []byte
	role         Role
	active       bool

	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewAdminUser creates an active admin user with a bcrypt-hashed
// password.
func NewAdminUser(id, email, name, password string, role Role, now time.Time) (*AdminUser, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &AdminUser{
		id:           id,
		email:        addr.Address,
		name:         name,
		passwordHash: hash,
		role:         role,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructAdminUser rebuilds an admin user from storage.
func ReconstructAdminUser(id, email, name string, passwordHash []byte, role Role, active bool, createdAt, updatedAt time.Time, deletedAt *time.Time) *AdminUser {
	return &AdminUser{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		role:         role,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		deletedAt:    deletedAt,
	}
}

// Getters
func (a *AdminUser) ID() string            { return a.id }
func (a *AdminUser) Email() string         { return a.email }
func (a *AdminUser) Name() string          { return a.name }
func (a *AdminUser) PasswordHash() []byte  { return a.passwordHash }
func (a *AdminUser) Role() Role            { return a.role }
func (a *AdminUser) Active() bool          { return a.active }
func (a *AdminUser) CreatedAt() time.Time  { return a.createdAt }
func (a *AdminUser) UpdatedAt() time.Time  { return a.updatedAt }
func (a *AdminUser) DeletedAt() *time.Time { return a.deletedAt }
func (a *AdminUser) IsDeleted() bool       { return a.deletedAt != nil }

// CheckPassword verifies a password against the stored hash.
func (a *AdminUser) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// Authorize checks that this user may perform the action right now.
// Deactivated and deleted users are denied everything.
func (a *AdminUser) Authorize(action Action) error {
	if !a.active || a.IsDeleted() {
		return ErrAdminInactive
	}
	if !a.role.Can(action) {
		return &PermissionError{ActorID: a.id, Role: a.role, Action: action}
	}
	return nil
}

// SetRole changes the user's role.
func (a *AdminUser) SetRole(role Role, now time.Time) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	a.role = role
	a.updatedAt = now
	return nil
}

// Deactivate suspends the user without deleting it.
func (a *AdminUser) Deactivate(now time.Time) {
	if !a.active {
		return
	}
	a.active = false
	a.updatedAt = now
}

// Activate lifts a suspension.
func (a *AdminUser) Activate(now time.Time) {
	if a.active {
		return
	}
	a.active = true
	a.updatedAt = now
}

// Delete soft-deletes the user.
func (a *AdminUser) Delete(now time.Time) {
	if a.deletedAt != nil {
		return
	}
	a.deletedAt = &now
	a.active = false
	a.updatedAt = now
}
