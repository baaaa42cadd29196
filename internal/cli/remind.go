package cli

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"truthle-quiz-service/internal/app"
	"truthle-quiz-service/internal/config"
	"truthle-quiz-service/internal/infra/memory"
	redisinfra "truthle-quiz-service/internal/infra/redis"
	"truthle-quiz-service/internal/logger"

	goredis "github.com/redis/go-redis/v9"
)

// NewRemindCmd runs the reminder scan: once with --once, otherwise on the
// cron schedule from the config file.
func NewRemindCmd(configPath *string) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Queue reminder emails for subscribers who have not played today",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReminders(cmd.Context(), *configPath, once)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single scan and exit")
	return cmd
}

func runReminders(ctx context.Context, configPath string, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.File)
	defer log.Sync()

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	queue := asynq.NewClient(redisOpt)
	defer queue.Close()

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	subs := redisinfra.NewSubscriberStore(client)
	attempts := app.NewAttemptService(
		memory.NewProgressCache(),
		redisinfra.NewAttemptStore(client),
		redisinfra.NewCoinLedger(client),
		memory.NewBoardStore(),
		log,
	)
	reminders := app.NewReminderService(subs, attempts, queue, log)

	scan := func() {
		date := time.Now().UTC().Format("2006-01-02")
		queued, err := reminders.Scan(ctx, date)
		if err != nil {
			log.Error("reminder scan failed", zap.Error(err))
			return
		}
		log.Info("reminder scan complete", zap.String("date", date), zap.Int("queued", queued))
	}

	if once {
		scan()
		return nil
	}

	schedule := cfg.Reminder.Schedule
	if schedule == "" {
		schedule = "0 18 * * *"
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, scan); err != nil {
		return err
	}
	log.Info("reminder scheduler started", zap.String("schedule", schedule))
	c.Start()
	<-ctx.Done()
	cronCtx := c.Stop()
	<-cronCtx.Done()
	return nil
}
