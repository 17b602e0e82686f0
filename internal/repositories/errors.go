package repositories

import "errors"

var (
	ErrAlreadyLiked     = errors.New("post already liked")
	ErrLikeNotFound     = errors.New("like not found")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrFollowNotFound   = errors.New("follow relationship not found")
	ErrAlreadyInList    = errors.New("post already in collection")
	ErrItemNotFound     = errors.New("post not in collection")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrPollExpired      = errors.New("poll has expired")
	ErrAlreadyVoted     = errors.New("already voted in this poll")
	ErrOptionNotFound   = errors.New("poll option not found")
)
