package models

// Role is the dashboard role of a user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleFarmer Role = "farmer"
	RoleVet    Role = "vet"
)

// UserStatus marks soft deactivation.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// User is a dashboard account. Password is opaque; hashing is the remote script's job.
type User struct {
	UserID    string     `json:"userId"`
	Username  string     `json:"username"`
	Password  string     `json:"password,omitempty"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	UserRole  Role       `json:"userRole"`
	OwnerID   string     `json:"ownerId,omitempty"`
	CreatedAt string     `json:"createdAt"`
	Status    UserStatus `json:"status"`
}

// NewUser is the input for account creation; ids and timestamps are assigned upstream.
type NewUser struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	UserRole Role   `json:"userRole" binding:"required"`
	OwnerID  string `json:"ownerId"`
	Address  string `json:"address"`
}

// Session identifies the caller of the data layer. It replaces any ambient
// browser storage: handlers build it from the bearer token and pass the
// relevant parts explicitly.
type Session struct {
	UserID  string `json:"userId"`
	Role    Role   `json:"role"`
	OwnerID string `json:"ownerId,omitempty"`
}

// IsFarmer reports whether reads and writes are limited to the session's own
// herd. A farmer without an owner id has no herd at all.
func (s Session) IsFarmer() bool {
	return s.Role == RoleFarmer
}

// Unlinked reports a farmer account that is not attached to an owner.
func (s Session) Unlinked() bool {
	return s.IsFarmer() && s.OwnerID == ""
}
