package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
)

func TestContacts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)

	zeca, err := AddContact(ctx, store, zap.NewNop(), admin, "Zeca", "(11) 98888-7777")
	require.NoError(t, err)
	_, err = AddContact(ctx, store, zap.NewNop(), admin, "ana", "+55 21 99999-0000")
	require.NoError(t, err)

	contacts, err := ListContacts(ctx, store, admin)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "ana", contacts[0].Name)

	lead := leadSession(t, store, "Paula", "paula@rseventos.com")
	url, err := DialURL(ctx, store, lead, zeca.ID, "55")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511988887777", url)

	assert.ErrorIs(t, DeleteContact(ctx, store, zap.NewNop(), lead, zeca.ID), ErrAdminOnly)
	require.NoError(t, DeleteContact(ctx, store, zap.NewNop(), admin, zeca.ID))
	assert.ErrorIs(t, DeleteContact(ctx, store, zap.NewNop(), admin, zeca.ID), ErrNotFound)

	_, err = DialURL(ctx, store, lead, zeca.ID, "55")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddContact_Failures(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)
	lead := leadSession(t, store, "Paula", "paula@rseventos.com")

	_, err := AddContact(ctx, store, zap.NewNop(), admin, "", "123")
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = AddContact(ctx, store, zap.NewNop(), admin, "Zeca", " ")
	assert.ErrorIs(t, err, ErrMissingField)
	_, err = AddContact(ctx, store, zap.NewNop(), lead, "Zeca", "123")
	assert.ErrorIs(t, err, ErrAdminOnly)

	assert.Empty(t, load(t, store).Contacts)
}

func TestWhatsAppURL(t *testing.T) {
	tests := []struct {
		number      string
		countryCode string
		want        string
	}{
		{"(11) 98888-7777", "55", "https://wa.me/5511988887777"},
		{"+55 11 98888-7777", "55", "https://wa.me/5511988887777"},
		{"11988887777", "", "https://wa.me/11988887777"},
		{"020 7946 0000", "44", "https://wa.me/4402079460000"},
	}

	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			assert.Equal(t, tt.want, WhatsAppURL(tt.number, tt.countryCode))
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)

	phone := " 11 5555-0000 "
	email := "Boss@RSEventos.com"
	session, err := UpdateProfile(ctx, store, zap.NewNop(), admin, ProfileUpdate{Email: &email, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "boss@rseventos.com", session.User.Email)
	assert.Equal(t, "11 5555-0000", session.User.Phone)

	doc := load(t, store)
	assert.Equal(t, "boss@rseventos.com", doc.Users[0].Email)
	assert.Equal(t, "boss@rseventos.com", doc.CurrentUser.Email)
	assert.Empty(t, doc.CurrentUser.PasswordHash)
	assert.NotEmpty(t, doc.Users[0].PasswordHash)
}

func TestUpdateProfile_EmailInUse(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	lead := leadSession(t, store, "Paula", "paula@rseventos.com")

	taken := "admin@rseventos.com"
	_, err := UpdateProfile(ctx, store, zap.NewNop(), lead, ProfileUpdate{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailInUse)

	blank := "  "
	_, err = UpdateProfile(ctx, store, zap.NewNop(), lead, ProfileUpdate{Email: &blank})
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)

	session, err := SetStatus(ctx, store, zap.NewNop(), admin, model.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, session.User.Status)
	assert.Equal(t, model.StatusInactive, load(t, store).CurrentUser.Status)

	_, err = SetStatus(ctx, store, zap.NewNop(), admin, "away")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = SetStatus(ctx, store, zap.NewNop(), nil, model.StatusOnline)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
