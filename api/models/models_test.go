package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestUserPrepareNormalizesInput(t *testing.T) {
	user := User{
		Username:      "  Alice ",
		Email:         " Alice@Example.COM ",
		Bio:           "<b>hi</b>",
		FollowerCount: 12,
		PostCount:     3,
	}
	user.Prepare()

	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "<b>hi</b>", user.Bio)
	assert.Zero(t, user.FollowerCount)
	assert.Zero(t, user.PostCount)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestPrepareKeepsTextAsWritten(t *testing.T) {
	post := Post{UserID: "u", Content: "  1 < 2 & 3 > 2 "}
	post.Prepare()
	assert.Equal(t, "1 < 2 & 3 > 2", post.Content)

	msg := Message{SenderID: "a", RecipientID: "b", Content: " a&b "}
	msg.Prepare()
	assert.Equal(t, "a&b", msg.Content)

	// At the limit with characters that html-escape to entities.
	full := Post{UserID: "u", Content: strings.Repeat("&", MaxPostLength)}
	full.Prepare()
	assert.Empty(t, full.Validate())

	user := User{Username: "alice", Email: "alice@example.com", Bio: strings.Repeat("<", MaxBioLength)}
	user.Prepare()
	assert.Empty(t, user.Validate())
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name string
		user User
		keys []string
	}{
		{"valid", User{Username: "alice", Email: "alice@example.com"}, nil},
		{"missing username", User{Email: "alice@example.com"}, []string{"Required_username"}},
		{"bad email", User{Username: "alice", Email: "nope"}, []string{"Invalid_email"}},
		{"missing email", User{Username: "alice"}, []string{"Required_email"}},
		{"long username", User{Username: strings.Repeat("a", 51), Email: "a@example.com"}, []string{"Invalid_username"}},
		{"long bio", User{Username: "alice", Email: "a@example.com", Bio: strings.Repeat("é", MaxBioLength+1)}, []string{"Invalid_bio"}},
		{"multibyte bio at limit", User{Username: "alice", Email: "a@example.com", Bio: strings.Repeat("é", MaxBioLength)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.user.Validate()
			assert.Len(t, errs, len(tt.keys))
			for _, key := range tt.keys {
				assert.Contains(t, errs, key)
			}
		})
	}
}

func TestPostValidate(t *testing.T) {
	parent, repost := "p1", "p2"

	assert.Empty(t, (&Post{UserID: "u", Content: "hello"}).Validate())
	assert.Contains(t, (&Post{UserID: "u"}).Validate(), "Required_content")
	assert.Contains(t, (&Post{UserID: "u", Content: strings.Repeat("é", MaxPostLength+1)}).Validate(), "Invalid_content")
	assert.Empty(t, (&Post{UserID: "u", Content: strings.Repeat("é", MaxPostLength)}).Validate())
	assert.Contains(t, (&Post{UserID: "u", Content: "x", ParentPostID: &parent, RepostID: &repost}).Validate(), "Invalid_reference")
}

func TestMessageValidate(t *testing.T) {
	assert.Empty(t, (&Message{SenderID: "a", RecipientID: "b", Content: "hi"}).Validate())
	assert.Contains(t, (&Message{SenderID: "a", RecipientID: "a", Content: "hi"}).Validate(), "Invalid_recipient")
	assert.Contains(t, (&Message{SenderID: "a", Content: "hi"}).Validate(), "Required_recipient")
	assert.Contains(t, (&Message{SenderID: "a", RecipientID: "b", Content: strings.Repeat("x", MaxMessageLength+1)}).Validate(), "Invalid_content")
}

func TestProjectPrepareAndValidate(t *testing.T) {
	p := Project{UserID: "u", Title: " t ", Description: " d ", TechStack: []string{" Go ", ""}}
	p.Prepare()
	assert.Empty(t, p.Validate())
	assert.Equal(t, "t", p.Title)
	assert.Equal(t, []string{"Go"}, p.TechStack)
	assert.NotNil(t, p.ImageURLs)

	assert.Contains(t, (&Project{UserID: "u", Description: "d"}).Validate(), "Required_title")
	assert.Contains(t, (&Project{UserID: "u", Title: strings.Repeat("x", MaxProjectTitleLength+1), Description: "d"}).Validate(), "Invalid_title")
	assert.Contains(t, (&Project{UserID: "u", Title: "t", Description: strings.Repeat("x", MaxProjectDescriptionLength+1)}).Validate(), "Invalid_description")
}

func TestFindTrendingHashtags(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Hashtag{}))

	now := time.Now()
	require.NoError(t, db.Create(&[]Hashtag{
		{Tag: "b", TrendingScore: 2, UpdatedAt: now},
		{Tag: "a", TrendingScore: 2, UpdatedAt: now},
		{Tag: "c", TrendingScore: 5, UpdatedAt: now},
	}).Error)

	got, err := FindTrendingHashtags(db, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].Tag)
	assert.Equal(t, "a", got[1].Tag)
}
