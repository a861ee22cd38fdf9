package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/college-table/internal/model"
	"github.com/d60-Lab/college-table/internal/repository"
	"github.com/d60-Lab/college-table/pkg/errcode"
)

func seedChatroom(t *testing.T, db *gorm.DB, members ...*model.User) *model.Chatroom {
	t.Helper()
	room := &model.Chatroom{Members: members}
	require.NoError(t, db.Create(room).Error)
	return room
}

func countMessages(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var cnt int64
	require.NoError(t, db.Model(&model.Message{}).Count(&cnt).Error)
	return cnt
}

func TestSendMessage(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	s := NewChatService(repository.NewChatroomRepository(db), pusher)
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "")
	bob := seedUser(t, db, c.ID, "bob", "ExponentPushToken[bob]")
	room := seedChatroom(t, db, alice, bob)

	out, err := s.SendMessage(ctx, alice.ID, SendMessageInput{ChatroomID: room.ID, Content: "hey"})
	require.NoError(t, err)

	body, ok := out.(map[string]any)
	require.True(t, ok)
	assert.IsType(t, int64(0), body["createdAt"])
	last, ok := body["lastMessage"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hey", last["content"])
	assert.IsType(t, int64(0), last["createdAt"])
	members := body["members"].([]any)
	require.Len(t, members, 2)
	assert.NotContains(t, members[0].(map[string]any), "pushToken")

	require.Len(t, pusher.msgs, 1)
	assert.Equal(t, "ExponentPushToken[bob]", pusher.msgs[0].PushToken)
	assert.Equal(t, "hey", pusher.msgs[0].Content.Body)

	// 对方发给自己：目标为 alice（index 0）
	_, err = s.SendMessage(ctx, bob.ID, SendMessageInput{ChatroomID: room.ID, Content: "yo"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), countMessages(t, db))
}

func TestSendMessage_KeepsTextAsSent(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	s := NewChatService(repository.NewChatroomRepository(db), pusher)
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "")
	bob := seedUser(t, db, c.ID, "bob", "ExponentPushToken[bob]")
	room := seedChatroom(t, db, alice, bob)

	for _, text := range []string{`Tom & Jerry, 3 < 5 "ok"`, "a<b"} {
		_, err := s.SendMessage(ctx, alice.ID, SendMessageInput{ChatroomID: room.ID, Content: text})
		require.NoError(t, err)

		var stored model.Message
		require.NoError(t, db.Order("id DESC").First(&stored).Error)
		assert.Equal(t, text, stored.Content)
		assert.Equal(t, text, pusher.msgs[len(pusher.msgs)-1].Content.Body)
	}
}

func TestSendMessage_EmptyTokenStillSucceeds(t *testing.T) {
	db := setupTestDB(t)
	pusher := &fakePusher{}
	s := NewChatService(repository.NewChatroomRepository(db), pusher)
	c := seedCollege(t, db, "wisc.edu")
	alice := seedUser(t, db, c.ID, "alice", "")
	bob := seedUser(t, db, c.ID, "bob", "")
	room := seedChatroom(t, db, alice, bob)

	out, err := s.SendMessage(context.Background(), alice.ID, SendMessageInput{ChatroomID: room.ID, Content: "hi"})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, pusher.msgs)
	assert.Equal(t, int64(1), countMessages(t, db))
}

func TestSendMessage_Rejections(t *testing.T) {
	db := setupTestDB(t)
	s := NewChatService(repository.NewChatroomRepository(db), &fakePusher{})
	ctx := context.Background()
	c := seedCollege(t, db, "wisc.edu")
	a := seedUser(t, db, c.ID, "a", "")
	b := seedUser(t, db, c.ID, "b", "")
	d := seedUser(t, db, c.ID, "d", "")
	pair := seedChatroom(t, db, a, b)
	group := seedChatroom(t, db, a, b, d)
	solo := seedChatroom(t, db, a)

	tests := []struct {
		name string
		user uint
		in   SendMessageInput
		want errcode.Code
	}{
		{"empty content", a.ID, SendMessageInput{ChatroomID: pair.ID}, errcode.InvalidParams},
		{"blank content", a.ID, SendMessageInput{ChatroomID: pair.ID, Content: " \n "}, errcode.InvalidParams},
		{"missing room", a.ID, SendMessageInput{ChatroomID: 9999, Content: "x"}, errcode.ChatroomNotFound},
		{"zero room", a.ID, SendMessageInput{Content: "x"}, errcode.ChatroomNotFound},
		{"not member", d.ID, SendMessageInput{ChatroomID: pair.ID, Content: "x"}, errcode.NotMember},
		{"three members", a.ID, SendMessageInput{ChatroomID: group.ID, Content: "x"}, errcode.MembersNotTwo},
		{"one member", a.ID, SendMessageInput{ChatroomID: solo.ID, Content: "x"}, errcode.MembersNotTwo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SendMessage(ctx, tt.user, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, countMessages(t, db))
}

func TestSendMessage_PushFailureFailsRequest(t *testing.T) {
	db := setupTestDB(t)
	boom := errors.New("provider down")
	s := NewChatService(repository.NewChatroomRepository(db), &fakePusher{err: boom})
	c := seedCollege(t, db, "wisc.edu")
	a := seedUser(t, db, c.ID, "a", "")
	b := seedUser(t, db, c.ID, "b", "tok")
	room := seedChatroom(t, db, a, b)

	_, err := s.SendMessage(context.Background(), a.ID, SendMessageInput{ChatroomID: room.ID, Content: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var code errcode.Code
	assert.False(t, errors.As(err, &code))
}
