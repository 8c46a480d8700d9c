package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleLead  Role = "lead"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleLead
}

type PersonType string

const (
	PersonFixed   PersonType = "fixed"
	PersonDayRate PersonType = "day_rate"
)

func (t PersonType) IsValid() bool {
	return t == PersonFixed || t == PersonDayRate
}

type UserStatus string

const (
	StatusOnline   UserStatus = "online"
	StatusInactive UserStatus = "inactive"
	StatusOffline  UserStatus = "offline"
)

func (s UserStatus) IsValid() bool {
	return s == StatusOnline || s == StatusInactive || s == StatusOffline
}

// User is an administrator or team lead who can log in
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	PasswordHash string     `json:"password_hash"`
	TeamID       string     `json:"team_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Phone        string     `json:"phone,omitempty"`
	Photo        string     `json:"photo,omitempty"` // Data URL, never touched by the CLI
	Status       UserStatus `json:"status,omitempty"`
}

// Team groups shifts under a responsible lead
type Team struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	LeadID string `json:"lead_id"`
}

// Person is a collaborator that can be assigned to shifts
type Person struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Type   PersonType `json:"type"`
	Active bool       `json:"active"`
	TeamID string     `json:"team_id,omitempty"`
}

// Shift is a dated, timed work slot for a team
type Shift struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`  // 2006-01-02
	Start       string    `json:"start"` // 15:04
	End         string    `json:"end"`   // 15:04
	TeamID      string    `json:"team_id"`
	CreatedBy   string    `json:"created_by"`
	PublishedAt time.Time `json:"published_at"`
	Notes       string    `json:"notes,omitempty"`
}

// ShiftAssignment links one person to one shift
type ShiftAssignment struct {
	ID       string `json:"id"`
	ShiftID  string `json:"shift_id"`
	PersonID string `json:"person_id"`
}

// ChangeLogEntry records an edit or deletion of a shift
type ChangeLogEntry struct {
	ID          string    `json:"id"`
	ShiftID     string    `json:"shift_id"`
	EditedBy    string    `json:"edited_by"`
	EditedAt    time.Time `json:"edited_at"`
	Description string    `json:"description"`
}

// Notification is addressed either to a single user or to every user of a role
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Role      Role      `json:"role,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Contact is an entry of the phone directory
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Document is the whole persisted application state
type Document struct {
	Revision      int64             `json:"revision"`
	CurrentUser   *User             `json:"current_user"`
	Users         []User            `json:"users"`
	Teams         []Team            `json:"teams"`
	People        []Person          `json:"people"`
	Shifts        []Shift           `json:"shifts"`
	Assignments   []ShiftAssignment `json:"assignments"`
	History       []ChangeLogEntry  `json:"history"`
	Notifications []Notification    `json:"notifications"`
	Contacts      []Contact         `json:"contacts"`
}
