package cron

import (
	"github.com/robfig/cron/v3"

	"github.com/saveblush/reraw-search/core/cctx"
	"github.com/saveblush/reraw-search/core/config"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/pgk/cache"
)

// Service service interface
type Service interface {
	Start() error
	Stop()
	AddQuery(spec string, fn func()) error
}

type service struct {
	cctx   *cctx.Context
	config *config.Configs
	cron   *cron.Cron
	cache  cache.Service
}

// NewService new scheduler, cache may be nil when nothing needs purging
func NewService(c cache.Service) Service {
	return &service{
		cctx:   cctx.New(),
		config: config.CF(),
		cron:   cron.New(),
		cache:  c,
	}
}

func (s *service) Start() error {
	logger.Log.Debug("Cron init...")
	if err := s.schedule(); err != nil {
		return err
	}
	s.cron.Start()

	return nil
}

// Stop stop and wait for running jobs
func (s *service) Stop() {
	<-s.cron.Stop().Done()
}

// AddQuery run fn on spec, a run is skipped while the previous one is still going
func (s *service) AddQuery(spec string, fn func()) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(fn))
	_, err := s.cron.AddJob(spec, job)
	if err != nil {
		logger.Log.Errorf("[cron] invalid schedule %q: %s", spec, err)
		return err
	}

	return nil
}

func (s *service) schedule() error {
	if s.cache == nil || s.config.Cache.PurgeSchedule == "" {
		return nil
	}

	// ล้าง cache ที่หมดอายุ
	_, err := s.cron.AddFunc(s.config.Cache.PurgeSchedule, func() {
		_, _ = s.cache.PurgeExpired(s.cctx)
	})
	if err != nil {
		logger.Log.Errorf("[cron] invalid purge schedule %q: %s", s.config.Cache.PurgeSchedule, err)
		return err
	}

	return nil
}
