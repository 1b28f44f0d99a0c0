package models

// User represents an account stored by the backend
type User struct {
	ID       string `bson:"id" json:"id" gorm:"primaryKey;size:64"`
	Name     string `bson:"name" json:"name" gorm:"size:200"`
	Email    string `bson:"email" json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password string `bson:"password,omitempty" json:"-"` // bcrypt hash, empty for Google accounts
	IsAdmin  bool   `bson:"isAdmin" json:"isAdmin"`
}

// TableName returns the table name for User model.
func (User) TableName() string {
	return "users"
}

// Identity returns the public view of the user
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

// Identity is the authenticated principal handed to clients
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Complete reports whether every required field of the identity is set
func (i Identity) Complete() bool {
	return i.ID != "" && i.Name != "" && i.Email != ""
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=200"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest is the body of POST /api/auth/google
type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

// AuthResponse is returned by every successful authentication endpoint
type AuthResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}
