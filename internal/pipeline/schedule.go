package pipeline

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// cronLogger routes cron's scheduler messages into arbor.
type cronLogger struct {
	logger arbor.ILogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	event := l.logger.Debug()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		event = event.Str(fmt.Sprint(keysAndValues[i]), fmt.Sprint(keysAndValues[i+1]))
	}
	event.Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	event := l.logger.Error().Err(err)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		event = event.Str(fmt.Sprint(keysAndValues[i]), fmt.Sprint(keysAndValues[i+1]))
	}
	event.Msg("cron: " + msg)
}

// Schedule runs fn on the cron schedule until ctx is done. A run still in
// progress when the next tick fires causes that tick to be skipped.
func Schedule(ctx context.Context, schedule string, logger arbor.ILogger, fn func(context.Context)) error {
	l := cronLogger{logger: logger}
	c := cron.New(cron.WithLogger(l), cron.WithChain(cron.SkipIfStillRunning(l)))

	_, err := c.AddFunc(schedule, func() {
		logger.Info().Str("schedule", schedule).Msg("Starting scheduled run")
		fn(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info().Str("schedule", schedule).Msg("Scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info().Msg("Scheduler stopped")
	return nil
}
