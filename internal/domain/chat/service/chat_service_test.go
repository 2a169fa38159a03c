package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"freedom_wall/internal/domain/chat/model"
	"freedom_wall/internal/domain/chat/repository"
	"freedom_wall/internal/pkg/content"
	"freedom_wall/pkg/apperr"
	"freedom_wall/pkg/database"
	"freedom_wall/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticWords []string

func (w staticWords) ActiveWords(context.Context) ([]string, error) { return w, nil }

func newService(t *testing.T) (*chatService, repository.ChatRepository) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.OpenMemory(name)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ChatMessage{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	repo := repository.NewChatRepository(db)
	cleaner := content.NewCleaner(security.NewSanitizer(security.SanitizerConfig{EscapeHTML: true}), staticWords{"spam"})
	svc := NewChatService(repo, cleaner, 20, 500).(*chatService)
	return svc, repo
}

func TestSendSanitizesAndStores(t *testing.T) {
	svc, _ := newService(t)
	msg, err := svc.Send(context.Background(), " owl ", "buy spam <b>now</b>")
	require.NoError(t, err)
	assert.Equal(t, "owl", msg.PenName)
	assert.NotContains(t, msg.Content, "spam")
	assert.Contains(t, msg.Content, "&lt;b&gt;")
	assert.Equal(t, model.TypeUser, msg.MessageType)

	_, err = svc.Send(context.Background(), strings.Repeat("x", 21), "hi")
	assert.Equal(t, "Pen name must be 20 characters or less", apperr.As(err).Message)

	_, err = svc.Send(context.Background(), "owl", "")
	assert.Equal(t, "Message is required", apperr.As(err).Message)
}

func TestCheckPenName(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	res, err := svc.CheckPenName(ctx, "owl")
	require.NoError(t, err)
	assert.True(t, res.Available)

	_, err = svc.Send(ctx, "owl", "hello")
	require.NoError(t, err)
	_, err = svc.CheckPenName(ctx, "owl")
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	require.NoError(t, repo.Create(ctx, &model.ChatMessage{
		PenName: "fox", Content: "old", Timestamp: time.Now().Add(-25 * time.Hour), MessageType: model.TypeUser,
	}))
	res, err = svc.CheckPenName(ctx, "fox")
	require.NoError(t, err)
	assert.True(t, res.Available)

	_, err = svc.CheckPenName(ctx, " ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCheckPenNameMatchesStoredForm(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, name := range []string{"o'neil", "<b>kit</b>", "spam bot"} {
		msg, err := svc.Send(ctx, name, "hello")
		require.NoError(t, err)
		assert.NotEqual(t, name, msg.PenName)

		_, err = svc.CheckPenName(ctx, name)
		assert.True(t, apperr.Is(err, apperr.KindConflict), name)
	}

	// 清洗后为空的笔名
	_, err := svc.CheckPenName(ctx, "\x01\x02")
	require.Error(t, err)
	assert.Equal(t, "Pen name cannot be empty", apperr.As(err).Message)
	_, err = svc.Send(ctx, "\x01\x02", "hello")
	require.Error(t, err)
	assert.Equal(t, "Pen name cannot be empty", apperr.As(err).Message)
}

func TestHistoryOldestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.Send(ctx, "owl", string(rune('a'+i)))
		require.NoError(t, err)
	}

	list, err := svc.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Content)
	assert.Equal(t, "c", list[1].Content)

	list, err = svc.History(ctx, 500)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
