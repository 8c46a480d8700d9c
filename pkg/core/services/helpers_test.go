package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/db"
)

var testNow = time.Date(2026, time.October, 16, 14, 30, 0, 0, time.UTC)

func newTestStore() *db.DB {
	return db.NewDB(db.NewMemoryStorage(), nil, zap.NewNop())
}

func adminSession(t *testing.T, store DocumentStore) *Session {
	t.Helper()
	session, err := Login(context.Background(), store, nil, zap.NewNop(), db.SeedAdminEmail, db.SeedAdminPassword, false)
	require.NoError(t, err)
	return session
}

func leadSession(t *testing.T, store DocumentStore, name, email string) *Session {
	t.Helper()
	session, err := Signup(context.Background(), store, nil, "1029", zap.NewNop(), SignupInput{
		Name:     name,
		Email:    email,
		Password: "secret",
	}, testNow)
	require.NoError(t, err)
	return session
}

// mutate applies fn to the stored document and saves it
func mutate(t *testing.T, store DocumentStore, fn func(doc *model.Document)) {
	t.Helper()
	ctx := context.Background()
	doc, err := store.Load(ctx)
	require.NoError(t, err)
	fn(doc)
	require.NoError(t, store.Save(ctx, doc))
}

func load(t *testing.T, store DocumentStore) *model.Document {
	t.Helper()
	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	return doc
}

// mockCredentials records RememberCredentials/ForgetCredentials calls
type mockCredentials struct {
	email, password string
	remembered      bool
	forgotten       int
}

func (m *mockCredentials) RememberCredentials(_ context.Context, email, password string) error {
	m.email, m.password, m.remembered = email, password, true
	return nil
}

func (m *mockCredentials) ForgetCredentials(context.Context) error {
	m.email, m.password, m.remembered = "", "", false
	m.forgotten++
	return nil
}
