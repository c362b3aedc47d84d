package engagement

import (
	"context"
	"strings"
	"testing"

	"github.com/rafa-porto/dev-connect/api/apperrors"
	"github.com/rafa-porto/dev-connect/api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateUserChangesOnlyGivenFields(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice, err := svc.CreateUser(ctx, CreateUserRequest{Username: "alice", Email: "alice@example.com", Name: "Alice", Bio: "hi"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, UpdateUserRequest{
		UserID:    alice.ID,
		Bio:       strPtr("  1 < 2  "),
		Location:  strPtr("Lisbon"),
		GithubURL: strPtr("https://github.com/alice"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "1 < 2", updated.Bio)
	assert.Equal(t, "Lisbon", updated.Location)
	assert.Equal(t, "https://github.com/alice", updated.GithubURL)
	assert.Empty(t, updated.Website)

	updated, err = svc.UpdateUser(ctx, UpdateUserRequest{UserID: alice.ID, Location: strPtr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Location)
	assert.Equal(t, "1 < 2", updated.Bio)

	var stored models.User
	require.NoError(t, db.Where("id = ?", alice.ID).Take(&stored).Error)
	assert.Equal(t, "https://github.com/alice", stored.GithubURL)
}

func TestUpdateUserRejectsBadInput(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	cases := map[string]UpdateUserRequest{
		"long bio":      {UserID: alice.ID, Bio: strPtr(strings.Repeat("é", models.MaxBioLength+1))},
		"long name":     {UserID: alice.ID, Name: strPtr(strings.Repeat("n", models.MaxNameLength+1))},
		"bad url":       {UserID: alice.ID, Website: strPtr("javascript:alert(1)")},
		"relative url":  {UserID: alice.ID, AvatarURL: strPtr("/img.png")},
		"missing actor": {},
	}
	for name, req := range cases {
		_, err := svc.UpdateUser(ctx, req)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation), name)
	}

	_, err := svc.UpdateUser(ctx, UpdateUserRequest{UserID: alice.ID, Bio: strPtr(strings.Repeat("&", models.MaxBioLength))})
	assert.NoError(t, err, "bio length counts characters as written")

	_, err = svc.UpdateUser(ctx, UpdateUserRequest{UserID: "ghost", Bio: strPtr("x")})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
}

func TestProjectsLifecycle(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")

	first, err := svc.CreateProject(ctx, CreateProjectRequest{
		UserID:      alice.ID,
		Title:       "  dev-connect ",
		Description: "A social network for developers",
		TechStack:   []string{"Go", " ", "Postgres"},
		GithubURL:   "https://github.com/alice/dev-connect",
	})
	require.NoError(t, err)
	assert.Equal(t, "dev-connect", first.Title)
	assert.Equal(t, []string{"Go", "Postgres"}, first.TechStack)
	assert.Equal(t, []string{}, first.ImageURLs)

	second, err := svc.CreateProject(ctx, CreateProjectRequest{
		UserID:      alice.ID,
		Title:       "dotfiles",
		Description: "Config",
		ImageURLs:   []string{"https://example.com/a.png"},
		IsFeatured:  true,
	})
	require.NoError(t, err)

	projects, err := svc.ListProjects(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, second.ID, projects[0].ID)
	assert.Equal(t, []string{"https://example.com/a.png"}, projects[0].ImageURLs)
	assert.Equal(t, []string{"Go", "Postgres"}, projects[1].TechStack)

	_, err = svc.CreateProject(ctx, CreateProjectRequest{UserID: "ghost", Title: "t", Description: "d"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))
	_, err = svc.CreateProject(ctx, CreateProjectRequest{UserID: alice.ID, Description: "d"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	_, err = svc.CreateProject(ctx, CreateProjectRequest{UserID: alice.ID, Title: "t", Description: "d", LiveURL: "ftp://x"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeValidation))
	_, err = svc.ListProjects(ctx, "ghost")
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound))

	require.NoError(t, svc.DeleteUser(ctx, alice.ID))
	assert.Zero(t, countRows(t, db, &models.Project{}, "1 = 1"))
}
