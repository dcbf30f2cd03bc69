package mylog

import (
	"context"
	"log/slog"
	"os"

	"goodstore/app/config"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

const telegramAttr = "telegram"

func Preinit() {
	slog.SetDefault(slog.New(newConsoleHandler()))
}

func Init(cfg *config.Config) error {
	router := slogmulti.Router().Add(newConsoleHandler())

	if cfg.Log.Telegram.Token != "" {
		router = router.Add(
			slogtelegram.Option{
				Level:     slog.LevelDebug,
				Token:     cfg.Log.Telegram.Token,
				Username:  cfg.Log.Telegram.ChatID,
				AddSource: true,
			}.NewTelegramHandler(),
			forwardToTelegram,
		)
	}

	slog.SetDefault(slog.New(router.Handler()))

	return nil
}

func newConsoleHandler() slog.Handler {
	return console.NewHandler(os.Stderr, &console.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	})
}

// forwardToTelegram passes errors and records explicitly tagged with telegram=true.
func forwardToTelegram(_ context.Context, r slog.Record) bool {
	if r.Level >= slog.LevelError {
		return true
	}

	tagged := false
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == telegramAttr {
			tagged = true
			return false
		}

		return true
	})

	return tagged
}
