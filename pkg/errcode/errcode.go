// Package errcode 定义返回给客户端的业务错误码。
package errcode

// Code 业务错误码，本身实现 error，便于 service 直接返回
type Code string

func (c Code) Error() string { return string(c) }

const (
	InvalidParams   Code = "invalidParams"
	LoginRequired   Code = "loginRequired"
	TokenNotMatched Code = "tokenNotMatched"
	InternalError   Code = "internalError"
	TooManyRequests Code = "tooManyRequests"

	ParamsNotEnough Code = "paramsNotEnough"
	InvalidBoard    Code = "invalidBoard"
	PostNotCreated  Code = "postNotCreated"

	InvalidPost         Code = "invalidPost"
	CommentNotCreated   Code = "commentNotCreated"
	CommentNotFound     Code = "commentNotFound"
	DeleteOthersComment Code = "deleteOthersComment"
	CommentNotDeleted   Code = "commentNotDeleted"

	CreateFriendRequestFailed Code = "createFriendRequestFailed"
	FriendRequestNotFound     Code = "friendRequestNotFound"
	CannotFriendSelf          Code = "cannotFriendSelf"
	AlreadyFriend             Code = "alreadyFriend"

	ChatroomNotFound Code = "chatroomNotFound"
	NotMember        Code = "notMember"
	MembersNotTwo    Code = "membersNotTwo"

	KeywordNotProvided      Code = "keywordNotProvided"
	CollegeNotFound         Code = "collegeNotFound"
	CollegeForEmailNotExist Code = "collegeForEmailNotExist"

	MailNotSent    Code = "mailNotSent"
	CodeExpired    Code = "codeExpired"
	CodeNotMatched Code = "codeNotMatched"
)
