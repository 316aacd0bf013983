package digest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"huntier/internal/logger"
	"huntier/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config 用于摘要调度配置。
type Config struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Interval string `yaml:"interval" json:"interval"`
	Timeout  string `yaml:"timeout" json:"timeout"`
	Lookback string `yaml:"lookback" json:"lookback"`
}

// Store 抽象存储接口，便于测试替换。
type Store interface {
	ListApplicantsSince(ctx context.Context, since time.Time) ([]model.Applicant, error)
}

// Notifier 用于发送新增申请摘要。
type Notifier interface {
	Notify(ctx context.Context, applicants []model.Applicant) error
}

// Scheduler 周期性汇总上次推送之后的新申请并发送摘要。
type Scheduler struct {
	store     Store
	notif     Notifier
	interval  time.Duration
	cronSpec  string
	cron      *cronSchedule
	timeout   time.Duration
	running   atomic.Bool
	newTicker func(time.Duration) ticker
	now       func() time.Time
	log       *zap.Logger

	mu    sync.Mutex
	since time.Time
}

type ticker interface {
	C() <-chan time.Time
	Stop()
}

// NewScheduler 创建 Scheduler；调度表达式无效时记录警告并回退为每天一次。
func NewScheduler(store Store, notif Notifier, cfg Config, log *zap.Logger) *Scheduler {
	log = logger.Named(log, "digest")

	interval, cronCfg, err := parseSchedule(cfg.Interval)
	if err != nil {
		log.Warn("invalid digest schedule, using default", zap.Error(err), zap.Duration("interval", defaultInterval))
		interval, cronCfg = defaultInterval, cronConfig{}
	}
	timeout := parsePositiveDuration(cfg.Timeout, 30*time.Second)
	lookback := parsePositiveDuration(cfg.Lookback, 24*time.Hour)

	s := &Scheduler{
		store:     store,
		notif:     notif,
		interval:  interval,
		cronSpec:  cronCfg.spec,
		cron:      cronCfg.schedule,
		timeout:   timeout,
		newTicker: defaultTicker,
		now:       time.Now,
		log:       log,
	}
	s.since = s.now().Add(-lookback)
	return s
}

func parsePositiveDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}

// Start 启动调度循环，直到上下文取消。
func (s *Scheduler) Start(ctx context.Context) error {
	if s.store == nil || s.notif == nil {
		return fmt.Errorf("digest scheduler missing dependencies")
	}

	g, ctx := errgroup.WithContext(ctx)

	if s.cron != nil {
		s.log.Info("digest scheduled", zap.String("cron", s.cronSpec))
		g.Go(func() error {
			return s.startCron(ctx)
		})
	} else {
		s.log.Info("digest scheduled", zap.Duration("interval", s.interval))
		tick := s.newTicker(s.interval)
		ch := tick.C()

		g.Go(func() error {
			defer tick.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ch:
					s.runLogged(ctx)
				drain:
					for {
						select {
						case <-ch:
							continue
						default:
							break drain
						}
					}
				}
			}
		})
	}

	return g.Wait()
}

// RunOnce 对外暴露单次摘要，便于手动触发。
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	return s.runOnce(ctx)
}

func (s *Scheduler) runLogged(ctx context.Context) {
	sent, err := s.runOnce(ctx)
	if err != nil {
		s.log.Error("digest run failed", zap.Error(err))
		return
	}
	s.log.Info("digest run done", zap.Int("applicants", sent))
}

func (s *Scheduler) runOnce(ctx context.Context) (int, error) {
	if s.running.Swap(true) {
		return 0, nil
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.mu.Lock()
	since := s.since
	s.mu.Unlock()

	applicants, err := s.store.ListApplicantsSince(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("list applicants: %w", err)
	}
	if len(applicants) == 0 {
		return 0, nil
	}

	if err := s.notif.Notify(ctx, applicants); err != nil {
		return 0, fmt.Errorf("notify: %w", err)
	}

	s.mu.Lock()
	for _, a := range applicants {
		if a.CreatedAt.After(s.since) {
			s.since = a.CreatedAt
		}
	}
	s.mu.Unlock()

	return len(applicants), nil
}

func defaultTicker(d time.Duration) ticker {
	t := time.NewTicker(d)
	return tickerWrapper{t}
}

type tickerWrapper struct {
	*time.Ticker
}

func (t tickerWrapper) C() <-chan time.Time { return t.Ticker.C }
func (t tickerWrapper) Stop()               { t.Ticker.Stop() }

func (s *Scheduler) startCron(ctx context.Context) error {
	for {
		next, err := s.cron.next(s.now())
		if err != nil {
			return fmt.Errorf("compute next cron time: %w", err)
		}
		wait := next.Sub(s.now())
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.runLogged(ctx)
		}
	}
}
