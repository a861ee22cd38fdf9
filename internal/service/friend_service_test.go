package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/errcode"
)

func newTestFriendService(db *gorm.DB, pusher *fakePusher) *friendService {
	friends := repository.NewFriendRepository(db)
	g := NewGuard(friends, repository.NewBoardRepository(db), repository.NewPostRepository(db))
	return NewFriendService(friends, repository.NewFriendRequestRepository(db), repository.NewUserRepository(db), g, pusher).(*friendService)
}

func TestRequestCode_RejectsAnonymous(t *testing.T) {
	db := setupTestDB(t)
	s := newTestFriendService(db, &fakePusher{})

	_, err := s.RequestCode(context.Background(), 0)
	assert.ErrorIs(t, err, errcode.TokenNotMatched)

	var cnt int64
	require.NoError(t, db.Model(&model.FriendRequest{}).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestRequestCode_RangeAndIdempotence(t *testing.T) {
	db := setupTestDB(t)
	s := newTestFriendService(db, &fakePusher{})
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	u := seedUser(t, db, c.ID, "alice", "")

	first, err := s.RequestCode(ctx, u.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first, 100000)
	assert.LessOrEqual(t, first, 999999)

	s.newCode = func() int { return 424242 }
	second, err := s.RequestCode(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 424242, second)

	var rows []model.FriendRequest
	require.NoError(t, db.Where("creator_id = ?", u.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 424242, rows[0].Code)
}

func TestRandomFriendCodeBounds(t *testing.T) {
	for i := 0; i < 10000; i++ {
		c := randomFriendCode()
		if c < 100000 || c > 999999 {
			t.Fatalf("code out of range: %d", c)
		}
	}
}

func TestRequestCode_StorageFailure(t *testing.T) {
	db := setupTestDB(t)
	s := newTestFriendService(db, &fakePusher{})
	require.NoError(t, db.Migrator().DropTable(&model.FriendRequest{}))

	_, err := s.RequestCode(context.Background(), 7)
	assert.ErrorIs(t, err, errcode.CreateFriendRequestFailed)
}

func TestAcceptCode(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	s := newTestFriendService(db, pusher)
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "ExponentPushToken[alice]")
	bob := seedUser(t, db, c.ID, "bob", "")

	s.newCode = func() int { return 123456 }
	code, err := s.RequestCode(ctx, alice.ID)
	require.NoError(t, err)

	_, err = s.AcceptCode(ctx, alice.ID, code)
	assert.ErrorIs(t, err, errcode.CannotFriendSelf)

	_, err = s.AcceptCode(ctx, bob.ID, 654321)
	assert.ErrorIs(t, err, errcode.FriendRequestNotFound)

	_, err = s.AcceptCode(ctx, bob.ID, 42)
	assert.ErrorIs(t, err, errcode.InvalidParams)

	creator, err := s.AcceptCode(ctx, bob.ID, code)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, creator.ID)

	ok, err := s.guard.IsFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 申请码被消费
	_, err = s.AcceptCode(ctx, bob.ID, code)
	assert.ErrorIs(t, err, errcode.FriendRequestNotFound)

	require.Len(t, pusher.one, 1)
	assert.Equal(t, "ExponentPushToken[alice]", pusher.one[0].PushToken)
	assert.Equal(t, "bob Test accepted your friend request", pusher.one[0].Content.Body)
}

func TestAcceptCode_AlreadyFriend(t *testing.T) {
	db := setupTestDB(t)
	s := newTestFriendService(db, &fakePusher{})
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "")
	bob := seedUser(t, db, c.ID, "bob", "")
	require.NoError(t, db.Create(&model.Friend{UserID: bob.ID, FriendID: alice.ID}).Error)

	code, err := s.RequestCode(ctx, alice.ID)
	require.NoError(t, err)
	_, err = s.AcceptCode(ctx, bob.ID, code)
	assert.ErrorIs(t, err, errcode.AlreadyFriend)
}

func TestListFriends(t *testing.T) {
	db := setupTestDB(t)
	s := newTestFriendService(db, &fakePusher{})
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	a := seedUser(t, db, c.ID, "a", "")
	b := seedUser(t, db, c.ID, "b", "")
	d := seedUser(t, db, c.ID, "d", "")
	seedUser(t, db, c.ID, "e", "")
	require.NoError(t, db.Create(&[]model.Friend{
		{UserID: a.ID, FriendID: d.ID},
		{UserID: b.ID, FriendID: a.ID},
		{UserID: a.ID, FriendID: b.ID},
	}).Error)

	friends, err := s.ListFriends(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, b.ID, friends[0].ID)
	assert.Equal(t, d.ID, friends[1].ID)

	empty, err := s.ListFriends(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = s.ListFriends(ctx, 0)
	assert.ErrorIs(t, err, errcode.TokenNotMatched)
}

func TestRequestCode_SkipsCodeHeldByOthers(t *testing.T) {
	db := setupTestDB(t)
	s := newTestFriendService(db, &fakePusher{})
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "")
	bob := seedUser(t, db, c.ID, "bob", "")

	s.newCode = func() int { return 111111 }
	_, err := s.RequestCode(ctx, alice.ID)
	require.NoError(t, err)

	codes := []int{111111, 111111, 222222}
	s.newCode = func() int {
		next := codes[0]
		codes = codes[1:]
		return next
	}
	code, err := s.RequestCode(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 222222, code)

	// 自己的旧 code 可以重复签发
	s.newCode = func() int { return 111111 }
	code, err = s.RequestCode(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 111111, code)
}

func TestRequestCode_GivesUpWhenCodesExhausted(t *testing.T) {
	db := setupTestDB(t)
	s := newTestFriendService(db, &fakePusher{})
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "")
	bob := seedUser(t, db, c.ID, "bob", "")

	s.newCode = func() int { return 111111 }
	_, err := s.RequestCode(ctx, alice.ID)
	require.NoError(t, err)

	_, err = s.RequestCode(ctx, bob.ID)
	assert.ErrorIs(t, err, errcode.CreateFriendRequestFailed)

	var rows []model.FriendRequest
	require.NoError(t, db.Where("code = ?", 111111).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, alice.ID, rows[0].CreatorID)
}

// consumingRequestRepo 读取申请后立即删除，模拟另一个请求抢先兑换
type consumingRequestRepo struct {
	repository.FriendRequestRepository
	db *gorm.DB
}

func (r consumingRequestRepo) GetByCode(ctx context.Context, code int) (*model.FriendRequest, error) {
	req, err := r.FriendRequestRepository.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := r.db.Delete(&model.FriendRequest{}, req.ID).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func TestAcceptCode_ConsumedConcurrently(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	s := newTestFriendService(db, pusher)
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "ExponentPushToken[alice]")
	carol := seedUser(t, db, c.ID, "carol", "")

	s.newCode = func() int { return 123456 }
	code, err := s.RequestCode(ctx, alice.ID)
	require.NoError(t, err)
	s.requestRepo = consumingRequestRepo{FriendRequestRepository: s.requestRepo, db: db}

	_, err = s.AcceptCode(ctx, carol.ID, code)
	assert.ErrorIs(t, err, errcode.FriendRequestNotFound)

	ok, err := s.guard.IsFriend(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, pusher.one)
}
