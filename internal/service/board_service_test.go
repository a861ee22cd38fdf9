package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/config"
	"github.com/d60-Lab/college-table/internal/cache"
	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/errcode"
)

func newTestBoardService(db *gorm.DB, cfg config.BoardConfig, pusher *fakePusher, bc *cache.BoardCache) BoardService {
	boards := repository.NewBoardRepository(db)
	posts := repository.NewPostRepository(db)
	g := NewGuard(repository.NewFriendRepository(db), boards, posts)
	return NewBoardService(cfg, boards, posts, repository.NewCommentRepository(db), g, pusher, bc)
}

func boolPtr(b bool) *bool { return &b }

func TestListBoards(t *testing.T) {
	db := setupTestDB(t)
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, nil)
	ctx := context.Background()

	_, err := s.ListBoards(ctx, 0)
	assert.ErrorIs(t, err, errcode.LoginRequired)

	c1 := seedCollege(t, db, "wisc.edu")
	c2 := seedCollege(t, db, "umich.edu")
	var rows []model.Board
	for i := 0; i < 35; i++ {
		rows = append(rows, model.Board{CollegeID: c1.ID, Type: model.BoardTypeGeneral, Title: "g"})
	}
	rows = append(rows,
		model.Board{CollegeID: c1.ID, Type: "club", Title: "club"},
		model.Board{CollegeID: c2.ID, Type: model.BoardTypeGeneral, Title: "other"},
	)
	require.NoError(t, db.Create(&rows).Error)

	boards, err := s.ListBoards(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, boards, 30)
	for i, b := range boards {
		assert.Equal(t, c1.ID, b.CollegeID)
		assert.Equal(t, model.BoardTypeGeneral, b.Type)
		if i > 0 {
			assert.Greater(t, b.ID, boards[i-1].ID)
		}
	}
}

func TestListBoards_Cached(t *testing.T) {
	db := setupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	bc := cache.NewBoardCache(rdb, time.Minute)
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, bc)
	ctx := context.Background()

	c := seedCollege(t, db, "wisc.edu")
	require.NoError(t, db.Create(&model.Board{CollegeID: c.ID, Type: model.BoardTypeGeneral, Title: "Free"}).Error)

	first, err := s.ListBoards(ctx, c.ID)
	require.NoError(t, err)
	second, err := s.ListBoards(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bc.Loads())
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestCreatePost(t *testing.T) {
	db := setupTestDB(t)
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, nil)
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	u := seedUser(t, db, c.ID, "alice", "")
	board := &model.Board{CollegeID: c.ID, Type: model.BoardTypeGeneral, Title: "Free"}
	require.NoError(t, db.Create(board).Error)

	post, err := s.CreatePost(ctx, u.ID, c.ID, CreatePostInput{BoardID: board.ID, Title: "Hi", Content: "Hello"})
	require.NoError(t, err)

	var stored model.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, board.ID, stored.BoardID)
	assert.Equal(t, u.ID, stored.UserID)
	assert.True(t, stored.IsAnonymous)

	post, err = s.CreatePost(ctx, u.ID, c.ID, CreatePostInput{BoardID: board.ID, Title: "  Q&A  ", Content: "a<b", IsAnonymous: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, post.IsAnonymous)

	// 按原文保存，只去首尾空白
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "Q&A", stored.Title)
	assert.Equal(t, "a<b", stored.Content)
}

func TestCreatePost_ParamsNotEnough(t *testing.T) {
	db := setupTestDB(t)
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, nil)
	ctx := context.Background()

	cases := []CreatePostInput{
		{Title: "t", Content: "c"},
		{BoardID: 1, Content: "c"},
		{BoardID: 1, Title: "t"},
		{BoardID: 1, Title: " \t\n", Content: "c"},
		{BoardID: 1, Title: "t", Content: "\x00"},
	}
	for _, in := range cases {
		_, err := s.CreatePost(ctx, 1, 1, in)
		assert.ErrorIs(t, err, errcode.ParamsNotEnough, "%+v", in)
	}
}

func TestCreatePost_ValidateOnPost(t *testing.T) {
	db := setupTestDB(t)
	c1 := seedCollege(t, db, "wisc.edu")
	c2 := seedCollege(t, db, "umich.edu")
	u := seedUser(t, db, c1.ID, "alice", "")
	foreign := &model.Board{CollegeID: c2.ID, Type: model.BoardTypeGeneral, Title: "Other"}
	require.NoError(t, db.Create(foreign).Error)
	in := CreatePostInput{BoardID: foreign.ID, Title: "Hi", Content: "Hello"}

	strict := newTestBoardService(db, config.BoardConfig{ValidateOnPost: true, ListLimit: 30}, &fakePusher{}, nil)
	_, err := strict.CreatePost(context.Background(), u.ID, c1.ID, in)
	assert.ErrorIs(t, err, errcode.InvalidBoard)

	// 默认关闭时不校验板块归属
	loose := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, nil)
	_, err = loose.CreatePost(context.Background(), u.ID, c1.ID, in)
	assert.NoError(t, err)
}

func TestCreatePost_InsertFailure(t *testing.T) {
	db := setupTestDB(t)
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, nil)
	require.NoError(t, db.Migrator().DropTable(&model.Post{}))

	_, err := s.CreatePost(context.Background(), 1, 1, CreatePostInput{BoardID: 1, Title: "Hi", Content: "Hello"})
	assert.ErrorIs(t, err, errcode.PostNotCreated)
}

func seedPost(t *testing.T, db *gorm.DB, collegeID, authorID uint) *model.Post {
	t.Helper()
	board := &model.Board{CollegeID: collegeID, Type: model.BoardTypeGeneral, Title: "Free"}
	require.NoError(t, db.Create(board).Error)
	post := &model.Post{BoardID: board.ID, UserID: authorID, Title: "t", Content: "c", IsAnonymous: true}
	require.NoError(t, db.Create(post).Error)
	return post
}

func TestCreateComment(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, pusher, nil)
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	author := seedUser(t, db, c.ID, "alice", "ExponentPushToken[alice]")
	other := seedUser(t, db, c.ID, "bob", "")
	post := seedPost(t, db, c.ID, author.ID)

	comment, err := s.CreateComment(ctx, other.ID, c.ID, CreateCommentInput{PostID: post.ID, Content: "nice"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.True(t, comment.IsAnonymous)

	require.Len(t, pusher.one, 1)
	assert.Equal(t, "ExponentPushToken[alice]", pusher.one[0].PushToken)
	assert.Equal(t, "Someone commented on your post", pusher.one[0].Content.Body)
	assert.Equal(t, "Post", pusher.one[0].Content.Data["route"])

	// 作者评论自己的帖子不推送
	mine, err := s.CreateComment(ctx, author.ID, c.ID, CreateCommentInput{PostID: post.ID, Content: " 3 < 5 & <b>ok</b> "})
	require.NoError(t, err)
	assert.Len(t, pusher.one, 1)

	var stored model.Comment
	require.NoError(t, db.First(&stored, mine.ID).Error)
	assert.Equal(t, "3 < 5 & <b>ok</b>", stored.Content)
}

func TestCreateComment_InvalidPost(t *testing.T) {
	db := setupTestDB(t)
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, nil)
	ctx := context.Background()
	c1 := seedCollege(t, db, "wisc.edu")
	c2 := seedCollege(t, db, "umich.edu")
	author := seedUser(t, db, c1.ID, "alice", "")
	post := seedPost(t, db, c1.ID, author.ID)

	_, err := s.CreateComment(ctx, author.ID, c2.ID, CreateCommentInput{PostID: post.ID, Content: "x"})
	assert.ErrorIs(t, err, errcode.InvalidPost)

	_, err = s.CreateComment(ctx, author.ID, c1.ID, CreateCommentInput{PostID: 777, Content: "x"})
	assert.ErrorIs(t, err, errcode.InvalidPost)

	_, err = s.CreateComment(ctx, author.ID, c1.ID, CreateCommentInput{PostID: post.ID})
	assert.ErrorIs(t, err, errcode.ParamsNotEnough)

	var cnt int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestDeleteComment_Ownership(t *testing.T) {
	db := setupTestDB(t)
	s := newTestBoardService(db, config.BoardConfig{ListLimit: 30}, &fakePusher{}, nil)
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	owner := seedUser(t, db, c.ID, "alice", "")
	stranger := seedUser(t, db, c.ID, "bob", "")
	post := seedPost(t, db, c.ID, owner.ID)
	comment := &model.Comment{PostID: post.ID, UserID: owner.ID, Content: "mine"}
	require.NoError(t, db.Create(comment).Error)

	err := s.DeleteComment(ctx, stranger.ID, comment.ID)
	assert.ErrorIs(t, err, errcode.DeleteOthersComment)

	var cnt int64
	require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", comment.ID).Count(&cnt).Error)
	assert.Equal(t, int64(1), cnt)

	require.NoError(t, s.DeleteComment(ctx, owner.ID, comment.ID))
	require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", comment.ID).Count(&cnt).Error)
	assert.Zero(t, cnt)

	assert.ErrorIs(t, s.DeleteComment(ctx, owner.ID, comment.ID), errcode.CommentNotFound)
	assert.ErrorIs(t, s.DeleteComment(ctx, owner.ID, 0), errcode.CommentNotFound)
}
