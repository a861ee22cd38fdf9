package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/repository"
)

// Guard 成员/归属校验。业务上的"不满足"返回零值，只有存储错误才返回 error
type Guard interface {
	IsFriend(ctx context.Context, userID, targetID uint) (bool, error)
	ValidBoard(ctx context.Context, collegeID, boardID uint) (bool, error)
	// ValidPost 帖子所在板块属于 collegeID 时返回帖子（含作者 push token），否则 nil
	ValidPost(ctx context.Context, collegeID, postID uint) (*model.Post, error)
}

type guard struct {
	friendRepo repository.FriendRepository
	boardRepo  repository.BoardRepository
	postRepo   repository.PostRepository
}

func NewGuard(friendRepo repository.FriendRepository, boardRepo repository.BoardRepository, postRepo repository.PostRepository) Guard {
	return &guard{friendRepo: friendRepo, boardRepo: boardRepo, postRepo: postRepo}
}

func (g *guard) IsFriend(ctx context.Context, userID, targetID uint) (bool, error) {
	ok, err := g.friendRepo.Exists(ctx, userID, targetID)
	if err != nil {
		return false, fmt.Errorf("check friend: %w", err)
	}
	return ok, nil
}

func (g *guard) ValidBoard(ctx context.Context, collegeID, boardID uint) (bool, error) {
	board, err := g.boardRepo.GetByID(ctx, boardID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load board: %w", err)
	}
	return board.CollegeID == collegeID, nil
}

func (g *guard) ValidPost(ctx context.Context, collegeID, postID uint) (*model.Post, error) {
	post, err := g.postRepo.GetWithScope(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if post.Board == nil || post.Board.CollegeID != collegeID {
		return nil, nil
	}
	return post, nil
}
