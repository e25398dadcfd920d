package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	tele "gopkg.in/telebot.v4"

	"urlshortener/internal/types"
)

const requestTimeout = 5 * time.Second

type Shortener interface {
	CreateShortURL(ctx context.Context, originalURL, customCode, owner string) (*types.Mapping, error)
	GetClickStats(ctx context.Context, code, caller string) ([]types.ClickStat, error)
}

type Accounts interface {
	CreateAccount(ctx context.Context, username string) error
}

type TelegramBot struct {
	tgBot     *tele.Bot
	accounts  Accounts
	shortener Shortener
	baseURL   string
}

func NewTelegramBot(tgToken, baseURL string, accounts Accounts, shortener Shortener) (*TelegramBot, error) {
	pref := tele.Settings{
		Token:  tgToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		slog.Error("failed to initialize telegram bot", "error", err)
		return nil, err
	}

	return &TelegramBot{
		tgBot:     bot,
		accounts:  accounts,
		shortener: shortener,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

func (b *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Telegram bot started", "bot_username", b.tgBot.Me.Username)

	b.tgBot.Handle("/start", b.handleStart)
	b.tgBot.Handle("/stats", b.handleStats)
	b.tgBot.Handle(tele.OnText, b.handleMessage)

	go func() {
		<-ctx.Done()
		slog.Info("Telegram bot shutting down")
		b.tgBot.Stop()
	}()

	b.tgBot.Start()
	return nil
}

// ownerID is the account name a Telegram user is registered under.
func ownerID(u *tele.User) string {
	return fmt.Sprintf("tg:%d", u.ID)
}

func (b *TelegramBot) handleStart(c tele.Context) error {
	slog.Debug("command /start received", "user_id", c.Sender().ID)
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := b.accounts.CreateAccount(ctx, ownerID(c.Sender())); err != nil {
		slog.Error("failed to create account", "user_id", c.Sender().ID, "error", err)
		return c.Send("Не вдалося створити акаунт, спробуйте пізніше.")
	}
	return c.Send("Привіт! Я допоможу тобі скоротити довге посилання. Просто надішліть його мені.\n" +
		"Можна додати власний код через пробіл. /stats <код> покаже статистику переходів.")
}

func (b *TelegramBot) handleMessage(c tele.Context) error {
	fields := strings.Fields(c.Text())
	if len(fields) == 0 || len(fields) > 2 {
		return c.Send("Надішліть посилання і, за бажанням, власний код.")
	}
	link := fields[0]
	custom := ""
	if len(fields) == 2 {
		custom = fields[1]
	}

	u, err := url.ParseRequestURI(link)
	if err != nil {
		slog.Warn("failed to parse url", "url", link)
		return c.Send("Ваше посилання не валідне.")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		slog.Warn("invalid url scheme or host", "url", link, "scheme", u.Scheme, "host", u.Host)
		return c.Send("Посилання повинно починатися з http:// або https:// і містити домен.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	m, err := b.shortener.CreateShortURL(ctx, link, custom, ownerID(c.Sender()))
	switch {
	case errors.Is(err, types.ErrUnknownOwner):
		return c.Send("Спершу надішліть /start.")
	case errors.Is(err, types.ErrInvalidInput):
		return c.Send("Код може містити лише латинські літери, цифри, _ та -.")
	case err != nil:
		slog.Error("failed to create short link", "error", err)
		return c.Send("Помилка при створенні посилання. Спробуйте ще раз")
	}

	shortURL := b.baseURL + "/" + m.ShortCode
	caption := "Ось ваше нове скорочене посилання:\n" + shortURL
	png, err := qrcode.Encode(shortURL, qrcode.Medium, 256)
	if err != nil {
		slog.Warn("failed to render qr code", "code", m.ShortCode, "error", err)
		return c.Send(caption)
	}
	return c.Send(&tele.Photo{File: tele.FromReader(bytes.NewReader(png)), Caption: caption})
}

func (b *TelegramBot) handleStats(c tele.Context) error {
	code := strings.TrimSpace(c.Message().Payload)
	if code == "" {
		return c.Send("Використання: /stats <код>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	stats, err := b.shortener.GetClickStats(ctx, code, ownerID(c.Sender()))
	if errors.Is(err, types.ErrNotFound) {
		return c.Send("Посилання не знайдено.")
	}
	if err != nil {
		slog.Error("failed to load stats", "code", code, "error", err)
		return c.Send("Не вдалося отримати статистику. Спробуйте ще раз")
	}
	return c.Send(formatStats(code, stats))
}

func formatStats(code string, stats []types.ClickStat) string {
	if len(stats) == 0 {
		return "Переходів за посиланням " + code + " ще не було."
	}
	var sb strings.Builder
	var total int64
	sb.WriteString("Статистика для " + code + ":\n")
	for _, s := range stats {
		fmt.Fprintf(&sb, "%s: %d\n", s.Date, s.ClickCount)
		total += s.ClickCount
	}
	fmt.Fprintf(&sb, "Всього: %d", total)
	return sb.String()
}
