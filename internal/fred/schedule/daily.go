package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Daily triggers jobs once per day at a fixed wall-clock time. Runs are
// serialized: a trigger firing while the previous run is still executing
// is skipped, never overlapped.
type Daily struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Daily {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Daily{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger.Sugar()})),
		),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// Spec compiles an "HH:MM" trigger time into a cron spec with seconds.
func Spec(at string) (string, error) {
	tm, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid trigger time %q (want HH:MM): %w", at, err)
	}
	return fmt.Sprintf("0 %d %d * * *", tm.Minute(), tm.Hour()), nil
}

// Add schedules job to run daily at the given "HH:MM" time. The job
// receives the scheduler's base context so process shutdown cancels an
// in-flight run.
func (d *Daily) Add(at string, job func(context.Context)) (cron.EntryID, error) {
	spec, err := Spec(at)
	if err != nil {
		return 0, err
	}
	return d.cron.AddFunc(spec, func() {
		job(d.baseCtx)
	})
}

func (d *Daily) Start() {
	d.logger.Info("scheduler started")
	d.cron.Start()
}

// Stop halts triggering and waits for an in-flight job to return.
func (d *Daily) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.logger.Info("scheduler stopped")
}

// cronLogger adapts zap to the cron.Logger interface.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Infow(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
