package service

import (
	"alcyxob/sportlink/internal/domain"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ptr[T any](v T) *T { return &v }

func TestProfileService_UpdateProfile(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProfileService(e.users, e.uploads, e.storage, e.logger)
	ctx := context.Background()
	user := e.addUser(t, "Old Name", "u@example.com", domain.RolePlayer)

	view, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{
		Name:       ptr(" New Name "),
		Sport:      ptr("Football"),
		Age:        ptr(21),
		Goals:      []string{"speed", " ", "endurance"},
		Experience: ptr("Advanced"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", view.Name)
	assert.Equal(t, "Football", view.Profile.Sport)
	assert.Equal(t, 21, view.Profile.Age)
	assert.Equal(t, "advanced", view.Profile.Experience)
	assert.Equal(t, "u@example.com", view.Email)

	stored := e.reload(t, user.ID)
	assert.Equal(t, "New Name", stored.Name)
	assert.Equal(t, "Football", stored.Profile.Sport)

	for name, upd := range map[string]ProfileUpdate{
		"empty name":     {Name: ptr("  ")},
		"age":            {Age: ptr(300)},
		"height":         {HeightCm: ptr(-1.0)},
		"experience":     {Experience: ptr("legend")},
		"foreign key":    {AvatarKey: ptr("avatars/" + primitive.NewObjectID().Hex() + "/x.png")},
		"too many goals": {Goals: make([]string, maxGoals+1)},
		"long bio":       {Bio: ptr(strings.Repeat("ß", maxBioLength+1))},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UpdateProfile(ctx, user.ID, upd)
			assert.Error(t, err)
		})
	}
}

func TestProfileService_BioCountsCharacters(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProfileService(e.users, e.uploads, e.storage, e.logger)
	user := e.addUser(t, "U", "u@example.com", domain.RolePlayer)

	bio := strings.Repeat("ß", maxBioLength)
	view, err := svc.UpdateProfile(context.Background(), user.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, view.Profile.Bio)
}

func TestProfileService_Avatar(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProfileService(e.users, e.uploads, e.storage, e.logger)
	ctx := context.Background()
	user := e.addUser(t, "U", "u@example.com", domain.RolePlayer)

	first, err := svc.RequestAvatarUpload(ctx, user.ID, "image/png")
	require.NoError(t, err)
	view, err := svc.UpdateProfile(ctx, user.ID, ProfileUpdate{AvatarKey: &first.ObjectKey})
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/get/"+first.ObjectKey, view.AvatarURL)

	// Re-sending the current avatar is a no-op.
	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{AvatarKey: &first.ObjectKey})
	require.NoError(t, err)
	assert.Empty(t, e.storage.deleted)

	second, err := svc.RequestAvatarUpload(ctx, user.ID, "image/jpeg")
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{AvatarKey: &second.ObjectKey})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ObjectKey}, e.storage.deleted, "replaced avatar is removed")

	// The current avatar cannot be attached a second time through a post.
	feed := newFeedService(e)
	_, err = feed.CreatePost(ctx, user.ID, "look", second.ObjectKey)
	assert.ErrorIs(t, err, ErrUploadNotFound, "avatar keys are not post images")

	view, err = svc.UpdateProfile(ctx, user.ID, ProfileUpdate{AvatarKey: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, view.AvatarURL)
}

func TestProfileService_GetProfile_EmailVisibility(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProfileService(e.users, e.uploads, e.storage, e.logger)
	ctx := context.Background()
	coach := e.addUser(t, "Coach", "c@example.com", domain.RoleCoach)
	player := e.addUser(t, "Player", "p@example.com", domain.RolePlayer)
	stranger := e.addUser(t, "Stranger", "s@example.com", domain.RolePlayer)
	e.link(t, coach, player)

	view, err := svc.GetProfile(ctx, stranger.ID, player.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Email)

	view, err = svc.GetProfile(ctx, coach.ID, player.ID)
	require.NoError(t, err)
	assert.Equal(t, "p@example.com", view.Email)

	_, err = svc.GetProfile(ctx, stranger.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileService_ListCoaches(t *testing.T) {
	e := newTestEnv(t)
	svc := NewProfileService(e.users, e.uploads, e.storage, e.logger)
	ctx := context.Background()

	a := e.addUser(t, "Alpha", "a@example.com", domain.RoleCoach)
	require.NoError(t, e.users.UpdateProfile(ctx, a.ID, domain.Profile{Sport: "Tennis"}))
	e.addUser(t, "Beta", "b@example.com", domain.RoleCoach)
	e.addUser(t, "Player", "p@example.com", domain.RolePlayer)

	all, err := svc.ListCoaches(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, c := range all {
		assert.Empty(t, c.Email)
	}

	tennis, err := svc.ListCoaches(ctx, "tennis", 0)
	require.NoError(t, err)
	require.Len(t, tennis, 1)
	assert.Equal(t, "Alpha", tennis[0].Name)
}
