package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"CryptoScannerBot/internal/handlers"
	"CryptoScannerBot/internal/models"

	"github.com/rs/zerolog"
)

const (
	startText = "Hello, I am the Crypto Scanner Bot!\n\n" +
		"Add me to your group and I will send signals automatically every hour.\n" +
		"You can also run a manual scan with the /scan command."
	scanStartedText = "Scan started, please wait..."
	scanBusyText    = "A scan is already running, please wait for its results."
	scanFailedText  = "The scan failed, please try again later."
	noReportText    = "No scan has finished yet."
)

type botAPI interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error)
}

type ReportScanner interface {
	ScanAll(ctx context.Context, trigger models.ScanTrigger) (*models.Report, error)
	LastReport() *models.Report
}

// Bot answers chat commands and delivers scheduled reports.
type Bot struct {
	api         botAPI
	scans       ReportScanner
	chatID      int64
	logger      zerolog.Logger
	pollTimeout int
	retryDelay  time.Duration

	wg sync.WaitGroup
}

func NewBot(api botAPI, scans ReportScanner, chatID int64, logger zerolog.Logger) *Bot {
	return &Bot{
		api:         api,
		scans:       scans,
		chatID:      chatID,
		logger:      logger.With().Str("component", "telegram").Logger(),
		pollTimeout: 30,
		retryDelay:  3 * time.Second,
	}
}

// Run polls for commands until ctx is done, then waits for running scans.
func (b *Bot) Run(ctx context.Context) error {
	defer b.wg.Wait()

	var offset int64
	for {
		updates, err := b.api.GetUpdates(ctx, offset, b.pollTimeout)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			b.logger.Warn().Err(err).Msg("polling updates failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(b.retryDelay):
			}
			continue
		}

		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message != nil {
				b.handleMessage(ctx, u.Message)
			}
		}
	}
}

// NotifyReport sends report to the configured chat.
func (b *Bot) NotifyReport(ctx context.Context, report *models.Report) error {
	return b.send(ctx, b.chatID, FormatReport(report))
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	switch command(msg.Text) {
	case "/start":
		b.reply(ctx, msg.Chat.ID, startText)
	case "/scan":
		b.reply(ctx, msg.Chat.ID, scanStartedText)
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.runManualScan(ctx, msg.Chat.ID)
		}()
	case "/last":
		report := b.scans.LastReport()
		if report == nil {
			b.reply(ctx, msg.Chat.ID, noReportText)
			return
		}
		b.reply(ctx, msg.Chat.ID, FormatReport(report))
	}
}

func (b *Bot) runManualScan(ctx context.Context, chatID int64) {
	report, err := b.scans.ScanAll(ctx, models.TriggerManual)
	switch {
	case errors.Is(err, handlers.ErrScanInProgress):
		b.reply(ctx, chatID, scanBusyText)
	case report == nil:
		b.logger.Error().Err(err).Msg("manual scan failed")
		b.reply(ctx, chatID, scanFailedText)
	default:
		b.reply(ctx, chatID, FormatReport(report))
	}
}

// send delivers text in as many messages as the length limit requires.
func (b *Bot) send(ctx context.Context, chatID int64, text string) error {
	for _, chunk := range SplitMessage(text, MaxMessageLength) {
		if err := b.api.SendMessage(ctx, chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.send(ctx, chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("sending message failed")
	}
}

// command extracts "/scan" from "/scan@MyBot extra".
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}
