package notify

import (
	"context"

	"github.com/rs/zerolog"

	"jobhound/internal/config"
	"jobhound/internal/logging"
	"jobhound/internal/pipeline"
)

// Notifier fans a run result out to the configured channels. Channel
// failures are logged, never fatal; the digest already happened.
type Notifier struct {
	cfg     *config.Config
	console *ConsoleRenderer
	report  *ReportWriter
	discord *DiscordSender
	logger  zerolog.Logger
}

// New builds a notifier for the configured channels.
func New(cfg *config.Config) *Notifier {
	return &Notifier{
		cfg:     cfg,
		console: NewConsoleRenderer(cfg),
		report:  NewReportWriter(cfg),
		discord: NewDiscordSender(cfg.Notification.DiscordWebhook),
		logger:  logging.Component("notify"),
	}
}

// Send delivers the result over every enabled channel. The webhook is
// skipped in dry-run mode so previews never page anyone.
func (n *Notifier) Send(ctx context.Context, res *pipeline.Result) {
	if n.cfg.Notification.ConsoleOutput {
		if err := n.console.Render(res); err != nil {
			n.logger.Warn().Err(err).Msg("console render failed")
		}
	}

	if n.cfg.Notification.HTMLReport {
		path, err := n.report.Write(res)
		if err != nil {
			n.logger.Warn().Err(err).Msg("report write failed")
		} else {
			n.logger.Info().Str("path", path).Msg("report written")
		}
	}

	if n.cfg.Notification.DiscordWebhook != "" && !res.Summary.DryRun {
		if err := n.discord.Send(ctx, res); err != nil {
			n.logger.Warn().Err(err).Msg("discord notification failed")
		} else {
			n.logger.Info().Msg("discord notification sent")
		}
	}
}
