package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracker/internal/apperrors"
	"issue-tracker/internal/models"
	"issue-tracker/internal/testutil"
)

const baseURL = "http://tracker.test"

type thread struct {
	*fixture
	reporter *models.User
	assignee *models.User
	outsider *models.User
	issue    *models.Issue
}

func newThread(t *testing.T) *thread {
	f := newFixture(t)
	th := &thread{
		fixture:  f,
		reporter: testutil.CreateUser(t, f.db, "reporter", models.RoleUser),
		assignee: testutil.CreateUser(t, f.db, "agent", models.RoleIT),
		outsider: testutil.CreateUser(t, f.db, "outsider", models.RoleUser),
	}
	th.issue = testutil.CreateIssue(t, f.db, th.reporter.ID, "VPN down")
	require.NoError(t, f.issues.Assign(context.Background(), th.issue.ID, "agent"))
	return th
}

func (th *thread) countMessages(t *testing.T) int64 {
	var n int64
	require.NoError(t, th.db.Model(&models.Conversation{}).Count(&n).Error)
	return n
}

func TestConversationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("reporter posts text", func(t *testing.T) {
		th := newThread(t)
		msg, err := th.conversations.Create(ctx, CreateMessageInput{
			IssueID: th.issue.ID, SenderID: th.reporter.ID, MessageType: "text", MessageText: "  still broken  ",
		}, baseURL)
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)
		assert.Equal(t, "still broken", msg.MessageText)
		require.NotNil(t, msg.SenderName)
		assert.Equal(t, "reporter", *msg.SenderName)
		assert.Nil(t, msg.Attachment)
		assert.Nil(t, msg.AttachmentURL)
		assert.False(t, msg.CreatedAt.IsZero())
	})

	t.Run("assignee posts attachment only", func(t *testing.T) {
		th := newThread(t)
		msg, err := th.conversations.Create(ctx, CreateMessageInput{
			IssueID: th.issue.ID, SenderID: th.assignee.ID, MessageType: "file", Attachment: "log.png",
		}, baseURL)
		require.NoError(t, err)
		assert.Equal(t, "", msg.MessageText)
		require.NotNil(t, msg.AttachmentURL)
		assert.Equal(t, AttachmentURL(baseURL, msg.ID), *msg.AttachmentURL)
	})

	t.Run("third party is forbidden and nothing is inserted", func(t *testing.T) {
		th := newThread(t)
		_, err := th.conversations.Create(ctx, CreateMessageInput{
			IssueID: th.issue.ID, SenderID: th.outsider.ID, MessageText: "let me in",
		}, baseURL)
		assert.True(t, apperrors.IsForbiddenError(err))
		assert.Zero(t, th.countMessages(t))
	})

	t.Run("unassigned issue accepts only the reporter", func(t *testing.T) {
		th := newThread(t)
		open := testutil.CreateIssue(t, th.db, th.reporter.ID, "unassigned")
		_, err := th.conversations.Create(ctx, CreateMessageInput{
			IssueID: open.ID, SenderID: th.assignee.ID, MessageText: "hi",
		}, baseURL)
		assert.True(t, apperrors.IsForbiddenError(err))
	})

	t.Run("empty message", func(t *testing.T) {
		th := newThread(t)
		_, err := th.conversations.Create(ctx, CreateMessageInput{
			IssueID: th.issue.ID, SenderID: th.reporter.ID, MessageText: "   ",
		}, baseURL)
		assert.True(t, apperrors.IsValidationError(err))
		assert.Equal(t, ErrMessageInputMsg, apperrors.GetAppError(err).Message)
	})

	t.Run("unknown issue", func(t *testing.T) {
		th := newThread(t)
		_, err := th.conversations.Create(ctx, CreateMessageInput{
			IssueID: 9999, SenderID: th.reporter.ID, MessageText: "hello",
		}, baseURL)
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}

func TestConversationService_List(t *testing.T) {
	ctx := context.Background()
	th := newThread(t)

	first, err := th.conversations.Create(ctx, CreateMessageInput{
		IssueID: th.issue.ID, SenderID: th.reporter.ID, MessageType: "text", MessageText: "first",
	}, baseURL)
	require.NoError(t, err)
	second, err := th.conversations.Create(ctx, CreateMessageInput{
		IssueID: th.issue.ID, SenderID: th.assignee.ID, MessageType: "file", Attachment: "shot.png",
	}, baseURL)
	require.NoError(t, err)

	other := testutil.CreateIssue(t, th.db, th.reporter.ID, "other")
	_, err = th.conversations.Create(ctx, CreateMessageInput{
		IssueID: other.ID, SenderID: th.reporter.ID, MessageText: "elsewhere",
	}, baseURL)
	require.NoError(t, err)

	msgs, err := th.conversations.List(ctx, th.issue.ID, baseURL)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, first.ID, msgs[0].ID)
	assert.Equal(t, second.ID, msgs[1].ID)

	m := msgs[1]
	assert.Equal(t, th.reporter.ID, m.ReporterID)
	require.NotNil(t, m.AssigneeID)
	assert.Equal(t, th.assignee.ID, *m.AssigneeID)
	require.NotNil(t, m.AssigneeName)
	assert.Equal(t, "agent", *m.AssigneeName)
	require.NotNil(t, m.SenderName)
	assert.Equal(t, "agent", *m.SenderName)
	require.NotNil(t, m.AttachmentURL)
	assert.Equal(t, baseURL+"/conversations/"+jsonUint(second.ID)+"/attachment", *m.AttachmentURL)
	assert.Nil(t, msgs[0].AttachmentURL)

	empty, err := th.conversations.List(ctx, 9999, baseURL)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestConversationService_AttachmentPath(t *testing.T) {
	ctx := context.Background()
	th := newThread(t)

	withFile, err := th.conversations.Create(ctx, CreateMessageInput{
		IssueID: th.issue.ID, SenderID: th.reporter.ID, Attachment: "trace.png",
	}, baseURL)
	require.NoError(t, err)
	textOnly, err := th.conversations.Create(ctx, CreateMessageInput{
		IssueID: th.issue.ID, SenderID: th.reporter.ID, MessageText: "no file",
	}, baseURL)
	require.NoError(t, err)

	t.Run("participants", func(t *testing.T) {
		for _, viewer := range []uint{th.reporter.ID, th.assignee.ID} {
			path, err := th.conversations.AttachmentPath(ctx, withFile.ID, viewer)
			require.NoError(t, err)
			assert.Equal(t, "/srv/uploads/trace.png", path)
		}
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		_, err := th.conversations.AttachmentPath(ctx, withFile.ID, th.outsider.ID)
		assert.True(t, apperrors.IsForbiddenError(err))
	})

	t.Run("missing attachment", func(t *testing.T) {
		_, err := th.conversations.AttachmentPath(ctx, textOnly.ID, th.reporter.ID)
		assert.True(t, apperrors.IsNotFoundError(err))

		_, err = th.conversations.AttachmentPath(ctx, 9999, th.reporter.ID)
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}
