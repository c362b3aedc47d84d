package controllers

import (
	"github.com/rafa-porto/dev-connect/api/engagement"
	"github.com/rafa-porto/dev-connect/api/models"
)

func userToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Name:           user.Name,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		BannerURL:      user.BannerURL,
		Location:       user.Location,
		Website:        user.Website,
		GithubURL:      user.GithubURL,
		PortfolioURL:   user.PortfolioURL,
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
		PostCount:      user.PostCount,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func usersToDTO(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = userToDTO(&users[i])
	}
	return out
}

func postToDTO(post *models.Post) PostDTO {
	return PostDTO{
		ID:            post.ID,
		UserID:        post.UserID,
		Content:       post.Content,
		ParentPostID:  post.ParentPostID,
		RepostID:      post.RepostID,
		LikeCount:     post.LikeCount,
		BookmarkCount: post.BookmarkCount,
		ReplyCount:    post.ReplyCount,
		RepostCount:   post.RepostCount,
		ViewCount:     post.ViewCount,
		CreatedAt:     post.CreatedAt,
	}
}

func postsToDTO(posts []models.Post) []PostDTO {
	out := make([]PostDTO, len(posts))
	for i := range posts {
		out[i] = postToDTO(&posts[i])
	}
	return out
}

func followToDTO(follow *models.Follow) EdgeDTO {
	return EdgeDTO{
		ID:        follow.ID,
		Kind:      string(engagement.EdgeFollow),
		SourceID:  follow.FollowerID,
		TargetID:  follow.FollowingID,
		CreatedAt: follow.CreatedAt,
	}
}

func likeToDTO(like *models.Like) EdgeDTO {
	return EdgeDTO{
		ID:        like.ID,
		Kind:      string(engagement.EdgeLike),
		SourceID:  like.UserID,
		TargetID:  like.PostID,
		CreatedAt: like.CreatedAt,
	}
}

func bookmarkToDTO(bookmark *models.Bookmark) EdgeDTO {
	return EdgeDTO{
		ID:        bookmark.ID,
		Kind:      string(engagement.EdgeBookmark),
		SourceID:  bookmark.UserID,
		TargetID:  bookmark.PostID,
		CreatedAt: bookmark.CreatedAt,
	}
}

func messageToDTO(message *models.Message) MessageDTO {
	return MessageDTO{
		ID:          message.ID,
		SenderID:    message.SenderID,
		RecipientID: message.RecipientID,
		Content:     message.Content,
		IsRead:      message.IsRead,
		CreatedAt:   message.CreatedAt,
	}
}

func messagesToDTO(messages []models.Message) []MessageDTO {
	out := make([]MessageDTO, len(messages))
	for i := range messages {
		out[i] = messageToDTO(&messages[i])
	}
	return out
}

func notificationsToDTO(notifications []models.Notification) []NotificationDTO {
	out := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		out[i] = NotificationDTO{
			ID:        n.ID,
			ActorID:   n.ActorID,
			Type:      string(n.Type),
			PostID:    n.PostID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}

func hashtagsToDTO(hashtags []models.Hashtag) []HashtagDTO {
	out := make([]HashtagDTO, len(hashtags))
	for i, h := range hashtags {
		out[i] = HashtagDTO{Tag: h.Tag, PostCount: h.PostCount, TrendingScore: h.TrendingScore}
	}
	return out
}

func projectToDTO(project *models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		UserID:      project.UserID,
		Title:       project.Title,
		Description: project.Description,
		TechStack:   project.TechStack,
		ImageURLs:   project.ImageURLs,
		GithubURL:   project.GithubURL,
		LiveURL:     project.LiveURL,
		IsFeatured:  project.IsFeatured,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func projectsToDTO(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i := range projects {
		out[i] = projectToDTO(&projects[i])
	}
	return out
}

func searchResultsToDTO(results *engagement.SearchResults) SearchResultsDTO {
	return SearchResultsDTO{
		Posts:    postsToDTO(results.Posts),
		Users:    usersToDTO(results.Users),
		Hashtags: hashtagsToDTO(results.Hashtags),
	}
}
