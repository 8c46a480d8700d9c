package db

import (
	"fmt"
	"time"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/utils"
)

// Seeded records
const (
	SeedAdminID       = "u1"
	SeedAdminEmail    = "admin@rseventos.com"
	SeedAdminPassword = "123"
	SeedTeamID        = "e1"
)

// DefaultDocument returns the document a fresh installation starts from:
// one administrator, one team led by them and two fixed collaborators.
func DefaultDocument() (*model.Document, error) {
	hash, err := utils.HashPassword(SeedAdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	return &model.Document{
		Users: []model.User{
			{
				ID:           SeedAdminID,
				Name:         "Administrador",
				Email:        SeedAdminEmail,
				Role:         model.RoleAdmin,
				PasswordHash: hash,
				CreatedAt:    time.Now().UTC(),
				Status:       model.StatusOnline,
			},
		},
		Teams: []model.Team{
			{ID: SeedTeamID, Name: "Equipe Cozinha A", LeadID: SeedAdminID},
		},
		People: []model.Person{
			{ID: "p1", Name: "João Silva", Type: model.PersonFixed, Active: true},
			{ID: "p2", Name: "Maria Souza", Type: model.PersonFixed, Active: true},
		},
		Shifts:        []model.Shift{},
		Assignments:   []model.ShiftAssignment{},
		History:       []model.ChangeLogEntry{},
		Notifications: []model.Notification{},
		Contacts:      []model.Contact{},
	}, nil
}
