package services

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = RegisterInput{Name: "Alice", Email: "a@x.com", Username: "alice", Password: "s3cret-pass"}

func TestRegister_CreatesUnverifiedUserAndMailsToken(t *testing.T) {
	f := newFixture(t)

	u, err := f.users.Register(ctx, alice)
	require.NoError(t, err)
	assert.False(t, u.Verified)
	assert.NotEqual(t, alice.Password, u.PasswordHash)

	m := f.notifier.last(t)
	assert.Equal(t, "verify", m.kind)
	assert.Equal(t, "a@x.com", m.email)
	assert.Equal(t, "alice", m.username)
	assert.NotEmpty(t, m.token)
}

func TestRegister_Conflict(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(ctx, alice)
	require.NoError(t, err)

	dupEmail := alice
	dupEmail.Username = "other"
	_, err = f.users.Register(ctx, dupEmail)
	assert.ErrorIs(t, err, common.ErrConflict)

	dupName := alice
	dupName.Email = "b@x.com"
	_, err = f.users.Register(ctx, dupName)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLogin_IdenticalErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(ctx, alice)
	require.NoError(t, err)

	_, unknown := f.users.Login(ctx, "nobody@x.com", "whatever")
	_, wrong := f.users.Login(ctx, "a@x.com", "wrong-password")

	require.Error(t, unknown)
	require.Error(t, wrong)
	assert.ErrorIs(t, unknown, common.ErrInvalidCredentials)
	assert.ErrorIs(t, wrong, common.ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestLogin_ThenResolve(t *testing.T) {
	f := newFixture(t)
	u, err := f.users.Register(ctx, alice)
	require.NoError(t, err)

	token, err := f.users.Login(ctx, "a@x.com", alice.Password)
	require.NoError(t, err)

	got, err := f.users.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestResolve_Rejections(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Register(ctx, alice)
	require.NoError(t, err)

	tokens := f.users.tokens

	noSubject, err := tokens.Sessions.Issue(auth.Claims{}, time.Minute, "")
	require.NoError(t, err)
	ghost, err := tokens.Sessions.Issue(auth.Claims{auth.ClaimSubject: "ghost"}, time.Minute, "")
	require.NoError(t, err)
	scoped, err := tokens.Sessions.Issue(auth.Claims{auth.ClaimSubject: "alice"}, time.Minute, auth.ScopePasswordReset)
	require.NoError(t, err)
	foreign, err := tokens.Actions.Issue(auth.Claims{auth.ClaimSubject: "alice"}, time.Minute, "")
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":    "not-a-token",
		"no subject": noSubject,
		"unknown":    ghost,
		"scoped":     scoped,
		"other key":  foreign,
	} {
		_, err := f.users.Resolve(ctx, tok)
		assert.True(t, errors.Is(err, common.ErrorUnauthorized), name)
	}
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	u, err := f.users.Register(ctx, alice)
	require.NoError(t, err)

	got, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}
