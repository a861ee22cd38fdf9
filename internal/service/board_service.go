package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/internal/cache"
	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/notify"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/errcode"
	"github.com/d60-Lab/college-table/pkg/logger"
	"github.com/d60-Lab/college-table/pkg/sanitize"
)

// CreatePostInput IsAnonymous 为空时默认匿名
type CreatePostInput struct {
	BoardID     uint
	Title       string
	Content     string
	IsAnonymous *bool
}

type CreateCommentInput struct {
	PostID      uint
	Content     string
	IsAnonymous *bool
}

// BoardService 板块、帖子、评论
type BoardService interface {
	ListBoards(ctx context.Context, collegeID uint) ([]*model.Board, error)
	CreatePost(ctx context.Context, userID, collegeID uint, in CreatePostInput) (*model.Post, error)
	CreateComment(ctx context.Context, userID, collegeID uint, in CreateCommentInput) (*model.Comment, error)
	DeleteComment(ctx context.Context, userID, commentID uint) error
}

type boardService struct {
	cfg         config.BoardConfig
	boardRepo   repository.BoardRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	guard       Guard
	pusher      notify.PushSender
	cache       *cache.BoardCache // 可为 nil
}

func NewBoardService(
	cfg config.BoardConfig,
	boardRepo repository.BoardRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	guard Guard,
	pusher notify.PushSender,
	boardCache *cache.BoardCache,
) BoardService {
	return &boardService{
		cfg:         cfg,
		boardRepo:   boardRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		guard:       guard,
		pusher:      pusher,
		cache:       boardCache,
	}
}

func anonymous(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

func (s *boardService) ListBoards(ctx context.Context, collegeID uint) ([]*model.Board, error) {
	if collegeID == 0 {
		return nil, errcode.LoginRequired
	}
	load := func(ctx context.Context) ([]*model.Board, error) {
		return s.boardRepo.ListByCollege(ctx, collegeID, model.BoardTypeGeneral, s.cfg.ListLimit)
	}
	var (
		boards []*model.Board
		err    error
	)
	if s.cache != nil {
		boards, err = s.cache.Boards(ctx, collegeID, model.BoardTypeGeneral, load)
	} else {
		boards, err = load(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

func (s *boardService) CreatePost(ctx context.Context, userID, collegeID uint, in CreatePostInput) (*model.Post, error) {
	title := sanitize.Text(in.Title)
	content := sanitize.Text(in.Content)
	if in.BoardID == 0 || title == "" || content == "" {
		return nil, errcode.ParamsNotEnough
	}

	if s.cfg.ValidateOnPost {
		ok, err := s.guard.ValidBoard(ctx, collegeID, in.BoardID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errcode.InvalidBoard
		}
	}

	post := &model.Post{
		BoardID:     in.BoardID,
		UserID:      userID,
		Title:       title,
		Content:     content,
		IsAnonymous: anonymous(in.IsAnonymous),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		logger.Error("create post", zap.Uint("user_id", userID), zap.Uint("board_id", in.BoardID), zap.Error(err))
		return nil, errcode.PostNotCreated
	}
	return post, nil
}

func (s *boardService) CreateComment(ctx context.Context, userID, collegeID uint, in CreateCommentInput) (*model.Comment, error) {
	content := sanitize.Text(in.Content)
	if in.PostID == 0 || content == "" {
		return nil, errcode.ParamsNotEnough
	}

	post, err := s.guard.ValidPost(ctx, collegeID, in.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errcode.InvalidPost
	}

	comment := &model.Comment{
		PostID:      post.ID,
		UserID:      userID,
		Content:     content,
		IsAnonymous: anonymous(in.IsAnonymous),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		logger.Error("create comment", zap.Uint("user_id", userID), zap.Uint("post_id", post.ID), zap.Error(err))
		return nil, errcode.CommentNotCreated
	}

	if post.UserID != userID {
		if err := s.pusher.SendOne(ctx, post.CreatedBy.Token(), notify.Content{
			Body: "Someone commented on your post",
			Data: map[string]any{"route": "Post", "postId": post.ID},
		}); err != nil {
			logger.Warn("comment push", zap.Uint("post_id", post.ID), zap.Error(err))
		}
	}
	return comment, nil
}

func (s *boardService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	if commentID == 0 {
		return errcode.CommentNotFound
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errcode.CommentNotFound
	}
	if err != nil {
		return fmt.Errorf("load comment: %w", err)
	}
	if comment.UserID != userID {
		return errcode.DeleteOthersComment
	}

	n, err := s.commentRepo.Delete(ctx, commentID)
	if err != nil {
		logger.Error("delete comment", zap.Uint("comment_id", commentID), zap.Error(err))
		return errcode.CommentNotDeleted
	}
	if n == 0 {
		return errcode.CommentNotDeleted
	}
	return nil
}
