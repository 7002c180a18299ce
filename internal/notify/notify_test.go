package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestFeedKeepsMostRecent(t *testing.T) {
	feed := NewFeed(2)
	ctx := context.Background()
	feed.Notify(ctx, SeverityRed, "one")
	feed.NotifyModal(ctx, SeverityWarning, "two")
	feed.Notify(ctx, SeverityGreen, "three")

	items := feed.Snapshot()
	require.Len(t, items, 2)
	require.Equal(t, KindModal, items[0].Kind)
	require.Equal(t, "two", items[0].Message)
	require.Equal(t, KindToast, items[1].Kind)
	require.Equal(t, SeverityGreen, items[1].Severity)

	drained := feed.Drain()
	require.Len(t, drained, 2)
	require.Empty(t, feed.Drain())
	require.NotNil(t, feed.Drain())
}

func TestLoggerWritesBothKinds(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	l.Notify(context.Background(), SeverityRed, "toast msg")
	l.NotifyModal(context.Background(), SeverityWarning, "modal msg")
	out := buf.String()
	require.Contains(t, out, "kind=toast")
	require.Contains(t, out, `message="toast msg"`)
	require.Contains(t, out, "kind=modal")
}

func TestFanout(t *testing.T) {
	a, b := NewFeed(4), NewFeed(4)
	fan := Fanout{a, b}
	fan.Notify(context.Background(), SeverityRed, "x")
	fan.NotifyModal(context.Background(), SeverityWarning, "x")
	require.Len(t, a.Snapshot(), 2)
	require.Len(t, b.Snapshot(), 2)
}

func TestSomethingWentWrongLocalized(t *testing.T) {
	require.Equal(t, "Oops, something went wrong", SomethingWentWrong(ResolveLocale()))
	require.Equal(t, "Oops, something went wrong", SomethingWentWrong(ResolveLocale("fr")))
	require.Equal(t, "Vaya, algo salió mal", SomethingWentWrong(ResolveLocale("es-MX")))
	require.Equal(t, "Ops, algo deu errado", SomethingWentWrong(ResolveLocale("pt")))
	require.Equal(t, language.SimplifiedChinese, ResolveLocale("zh-CN"))
}
