package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benjaminRoberts01375/Stingray-sub001/internal/profile"
)

func openStore(t *testing.T) *profile.Store {
	t.Helper()
	s, err := profile.Open(context.Background(), profile.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func login(name string) *profile.Profile {
	return &profile.Profile{
		Name:      name,
		ServerURL: "http://jellyfin.local:8096",
		ServerID:  "srv-1",
		UserID:    "user-" + name,
		UserName:  name,
		Token:     "token-" + name,
		DeviceID:  "device-1",
	}
}

func TestStore_SaveGet(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	p := login("home")
	require.NoError(t, s.Save(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "user-home", got.UserID)
	assert.Equal(t, "token-home", got.Token)
	assert.Equal(t, "srv-1", got.ServerID)
	assert.Equal(t, p.CreatedAt.Unix(), got.CreatedAt.Unix())
	assert.False(t, got.Default)

	_, err = s.Get(ctx, "work")
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestStore_SaveReplacesAndKeepsCreatedAt(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first := login("home")
	first.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, first))

	second := login("home")
	second.Token = "rotated"
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.Token)
	assert.Equal(t, first.CreatedAt.Unix(), got.CreatedAt.Unix())

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_SaveValidates(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for name, mutate := range map[string]func(*profile.Profile){
		"name":   func(p *profile.Profile) { p.Name = "" },
		"server": func(p *profile.Profile) { p.ServerURL = "" },
		"token":  func(p *profile.Profile) { p.Token = "" },
		"device": func(p *profile.Profile) { p.DeviceID = "" },
	} {
		p := login("x")
		mutate(p)
		assert.ErrorIs(t, s.Save(ctx, p), profile.ErrInvalid, name)
	}
}

func TestStore_ListDelete(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, name := range []string{"work", "home", "cabin"} {
		require.NoError(t, s.Save(ctx, login(name)))
	}
	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "cabin", all[0].Name)
	assert.Equal(t, "work", all[2].Name)

	require.NoError(t, s.Delete(ctx, "home"))
	assert.ErrorIs(t, s.Delete(ctx, "home"), profile.ErrNotFound)

	all, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_Default(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Default(ctx)
	assert.ErrorIs(t, err, profile.ErrNotFound)

	require.NoError(t, s.Save(ctx, login("home")))
	only, err := s.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "home", only.Name, "a single profile is the implicit default")

	require.NoError(t, s.Save(ctx, login("work")))
	_, err = s.Default(ctx)
	assert.ErrorIs(t, err, profile.ErrNotFound)

	require.NoError(t, s.SetDefault(ctx, "work"))
	def, err := s.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "work", def.Name)
	assert.True(t, def.Default)

	require.NoError(t, s.SetDefault(ctx, "home"))
	def, err = s.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "home", def.Name)

	work, err := s.Get(ctx, "work")
	require.NoError(t, err)
	assert.False(t, work.Default)

	assert.ErrorIs(t, s.SetDefault(ctx, "nowhere"), profile.ErrNotFound)
	def, err = s.Default(ctx)
	require.NoError(t, err)
	assert.Equal(t, "home", def.Name, "a failed SetDefault leaves the old default")
}

func TestStore_Close(t *testing.T) {
	s, err := profile.Open(context.Background(), profile.Memory)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.List(context.Background())
	assert.ErrorIs(t, err, profile.ErrClosed)
}

func TestStore_ReopensFile(t *testing.T) {
	path := t.TempDir() + "/data/profiles.db"
	ctx := context.Background()

	s, err := profile.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, login("home")))
	require.NoError(t, s.Close())

	s, err = profile.Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	got, err := s.Get(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "token-home", got.Token)
}
