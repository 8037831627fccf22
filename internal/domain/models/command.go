package models

// CommandResult is the envelope returned by write actions. Success=false is a
// business outcome the caller must branch on, not an error.
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OwnerID string `json:"ownerId,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// CattleUpdate carries the fields of a partial cattle update. Nil fields are not sent.
type CattleUpdate struct {
	CattleName     *string       `json:"cattleName,omitempty"`
	Breed          *string       `json:"breed,omitempty"`
	Age            *int          `json:"age,omitempty"`
	Weight         *int          `json:"weight,omitempty"`
	HealthStatus   *HealthStatus `json:"healthStatus,omitempty"`
	OwnerID        *string       `json:"ownerId,omitempty"`
	Location       *string       `json:"location,omitempty"`
	ActivityStatus *string       `json:"activityStatus,omitempty"`
}

// UserUpdate carries the fields of a partial user update. Nil fields are not sent.
type UserUpdate struct {
	Username *string     `json:"username,omitempty"`
	Password *string     `json:"password,omitempty"`
	FullName *string     `json:"fullName,omitempty"`
	Email    *string     `json:"email,omitempty"`
	Phone    *string     `json:"phone,omitempty"`
	UserRole *Role       `json:"userRole,omitempty"`
	OwnerID  *string     `json:"ownerId,omitempty"`
	Status   *UserStatus `json:"status,omitempty"`
}
