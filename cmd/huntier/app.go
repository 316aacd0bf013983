package main

import (
	"context"
	"fmt"
	"net/http"

	"huntier/internal/api"
	"huntier/internal/catalog"
	"huntier/internal/config"
	"huntier/internal/digest"
	"huntier/internal/intake"
	"huntier/internal/match"
	"huntier/internal/model"
	"huntier/internal/notifier"
	"huntier/internal/storage"
	"huntier/internal/suggest"

	"go.uber.org/zap"
)

type scheduler interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) (int, error)
}

// appDeps 为命令运行所需的组件。
type appDeps struct {
	handler http.Handler
	sched   scheduler
}

type appBuilder func(config.AppConfig) (appDeps, func(), error)

// newAppBuilder 返回按配置装配全部组件的构造函数，cleanup 负责关闭数据库。
func newAppBuilder(log *zap.Logger) appBuilder {
	return func(cfg config.AppConfig) (appDeps, func(), error) {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return appDeps{}, func() {}, fmt.Errorf("load catalog: %w", err)
		}

		store, err := storage.Open(cfg.Database)
		if err != nil {
			return appDeps{}, func() {}, fmt.Errorf("init store: %w", err)
		}
		cleanup := func() {
			if err := store.Close(); err != nil {
				log.Warn("close store", zap.Error(err))
			}
		}

		svc := intake.NewService(store, notifier.NewLogNotifier(log), log)

		handler := api.NewHandler(api.Deps{
			Intake:     svc,
			Matcher:    match.NewLexicalScorer(cat),
			Suggester:  suggest.NewCatalogSuggester(cat),
			Catalog:    cat,
			Meta:       newStaticMeta(cfg.Meta, cat),
			Applicants: applicantLister{store},
			Log:        log,
			Options: api.Options{
				AdminToken:   cfg.Server.AdminToken,
				AllowOrigin:  cfg.Server.AllowOrigin,
				StaticDir:    cfg.Server.StaticDir,
				MaxBodyBytes: cfg.Server.MaxBodyBytes,
			},
		})

		sched := digest.NewScheduler(store, buildDigestNotifier(cfg.Email, log), cfg.Digest, log)

		return appDeps{handler: handler, sched: sched}, cleanup, nil
	}
}

func buildDigestNotifier(cfg notifier.EmailConfig, log *zap.Logger) digest.Notifier {
	if !cfg.Enabled() {
		log.Info("email notifier disabled: missing host/port/from/to, digest goes to log")
		return notifier.NewLogNotifier(log)
	}
	return notifier.NewEmailNotifier(cfg, nil)
}

// 适配 API 所需接口。
type applicantLister struct {
	store *storage.Store
}

func (a applicantLister) ListApplicants(ctx context.Context, limit, offset int) ([]model.Applicant, error) {
	return a.store.ListApplicants(ctx, storage.ApplicantQuery{Limit: limit, Offset: offset})
}

func (a applicantLister) CountApplicants(ctx context.Context) (int64, error) {
	return a.store.CountApplicants(ctx)
}

// staticMeta 在启动时计算一次表单元数据。
type staticMeta struct {
	resp api.MetaResponse
}

func newStaticMeta(cfg config.MetaConfig, cat *catalog.Catalog) staticMeta {
	return staticMeta{resp: api.MetaResponse{
		ExperienceBuckets: cfg.ExperienceBuckets,
		EducationLevels:   cfg.EducationLevels,
		Languages:         cfg.Languages,
		Roles:             cat.Titles(),
		Skills:            cat.Skills(),
	}}
}

func (m staticMeta) Snapshot() api.MetaResponse {
	return m.resp
}
