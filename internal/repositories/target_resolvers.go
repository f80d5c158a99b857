package repositories

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
)

// NewPostTargetResolver resolves targets of kind "post" against the post repository
func NewPostTargetResolver(posts PostRepository) TargetResolver {
	return func(ctx context.Context, id string) error {
		_, err := posts.GetPostByID(ctx, id)
		return err
	}
}

// NewCommentTargetResolver resolves targets of kind "comment" against the
// comment repository. Comment ids are numeric; anything else is not found.
func NewCommentTargetResolver(comments CommentRepository) TargetResolver {
	return func(ctx context.Context, id string) error {
		commentID, err := strconv.ParseUint(id, 10, 32)
		if err != nil {
			return ErrTargetNotFound
		}
		_, err = comments.GetCommentByID(ctx, uint(commentID))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTargetNotFound
		}
		return err
	}
}
