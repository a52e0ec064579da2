package domain

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrInvalidUsername     = errors.New("username must be 3-50 letters, digits, dots, dashes or underscores")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrInvalidUserType     = errors.New("invalid user type")
)

// UserType is the role of an account.
type UserType string

// Known user types.
const (
	UserTypeUser  UserType = "user"
	UserTypeAdmin UserType = "admin"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeUser || t == UserTypeAdmin
}

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
)

// User represents a registered account that can publish, comment and like.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"-"` // Plaintext password, only set during registration/updates
	HashedPassword string    `json:"-"`
	UserType       UserType  `json:"user_type"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given username and plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(username, password string, userType UserType) (*User, error) {
	if userType == "" {
		userType = UserTypeUser
	}
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Password:  password,
		UserType:  userType,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// IsAdmin reports whether the user may manage the catalog.
func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyUserID)
	}

	if u.Username == "" {
		return NewValidationError("username", "cannot be empty", ErrEmptyUsername)
	}
	if !validUsername(u.Username) {
		return NewValidationError("username", "has invalid format", ErrInvalidUsername)
	}

	if !u.UserType.Valid() {
		return NewValidationError("user_type", "must be user or admin", ErrInvalidUserType)
	}

	if u.Password != "" {
		if len(u.Password) < minPasswordLength {
			return NewValidationError("password", "is too short", ErrPasswordTooShort)
		}
		if len(u.Password) > maxPasswordLength {
			return NewValidationError("password", "is too long", ErrPasswordTooLong)
		}
		return nil
	}

	// Without a plaintext password, a stored user must carry a hash.
	if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", ErrEmptyPassword)
	}

	return nil
}

// UserUpdate lists the fields to change on an account. Nil fields are left alone.
type UserUpdate struct {
	Username *string
	Password *string
	UserType *UserType
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Username == nil && u.Password == nil && u.UserType == nil
}

// Apply copies the set fields onto the user and validates the result. A new
// password is left in Password for the caller to hash.
func (u *User) Apply(update UserUpdate) error {
	if update.Username != nil {
		u.Username = strings.TrimSpace(*update.Username)
	}
	if update.Password != nil {
		if *update.Password == "" {
			return NewValidationError("password", "cannot be empty", ErrEmptyPassword)
		}
		u.Password = *update.Password
	}
	if update.UserType != nil {
		u.UserType = *update.UserType
	}
	if err := u.Validate(); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func validUsername(name string) bool {
	n := len([]rune(name))
	if n < minUsernameLength || n > maxUsernameLength {
		return false
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}
