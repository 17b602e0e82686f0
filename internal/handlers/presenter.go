package handlers

import (
	"github.com/anonto42/preference/backend/internal/moderation"
	"github.com/anonto42/preference/backend/internal/models"
	"github.com/anonto42/preference/backend/internal/repositories"
)

// PostView is a post as shown to one viewer.
type PostView struct {
	models.Post
	Author       models.ProfileCompact `json:"author"`
	IsLiked      bool                  `json:"is_liked"`
	IsBookmarked bool                  `json:"is_bookmarked"`
}

// CommentView is a comment with its author and, on profile pages, its post.
type CommentView struct {
	models.Comment
	Author models.ProfileCompact `json:"author"`
	Post   *PostView             `json:"post,omitempty"`
}

// PostPresenter censors content and fills in viewer-specific flags.
type PostPresenter struct {
	likes       repositories.LikeRepository
	collections repositories.CollectionRepository
	words       repositories.SensitiveWordRepository
}

func NewPostPresenter(likeRepo repositories.LikeRepository, collectionRepo repositories.CollectionRepository, wordRepo repositories.SensitiveWordRepository) *PostPresenter {
	return &PostPresenter{likes: likeRepo, collections: collectionRepo, words: wordRepo}
}

func (p *PostPresenter) posts(viewerID uint, posts []models.Post) ([]PostView, error) {
	words, err := p.words.GetWords()
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	liked, err := p.likes.GetLikedPostIDs(viewerID, ids)
	if err != nil {
		return nil, err
	}
	saved, err := p.collections.GetBookmarkedPostIDs(viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, post := range posts {
		views[i] = postView(post, words)
		views[i].IsLiked = liked[post.ID]
		views[i].IsBookmarked = saved[post.ID]
	}
	return views, nil
}

func (p *PostPresenter) post(viewerID uint, post *models.Post) (*PostView, error) {
	views, err := p.posts(viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (p *PostPresenter) comments(comments []models.Comment, withPost bool) ([]CommentView, error) {
	words, err := p.words.GetWords()
	if err != nil {
		return nil, err
	}
	views := make([]CommentView, len(comments))
	for i, cm := range comments {
		cm.Content = moderation.Censor(cm.Content, words)
		views[i] = CommentView{Comment: cm}
		if cm.Author != nil {
			views[i].Author = cm.Author.ToCompact()
		}
		if withPost && cm.Post != nil {
			pv := postView(*cm.Post, words)
			views[i].Post = &pv
		}
	}
	return views, nil
}

func postView(post models.Post, words []models.SensitiveWord) PostView {
	post.Content = moderation.Censor(post.Content, words)
	view := PostView{Post: post}
	if post.Author != nil {
		view.Author = post.Author.ToCompact()
	}
	if view.Images == nil {
		view.Images = []string{}
	}
	return view
}
