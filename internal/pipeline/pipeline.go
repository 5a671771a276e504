// Package pipeline orchestrates the full scrape: fetch both chambers,
// normalize, download portraits, persist datasets and report stats.
package pipeline

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/polidle/parl-scraper/internal/assemblee"
	"github.com/polidle/parl-scraper/internal/config"
	"github.com/polidle/parl-scraper/internal/dataset"
	"github.com/polidle/parl-scraper/internal/member"
	"github.com/polidle/parl-scraper/internal/progress"
	"github.com/polidle/parl-scraper/internal/senat"
)

// ErrNoRecords signals that every upstream source came back empty; it is
// the only condition that fails the whole run.
var ErrNoRecords = errors.New("no records fetched from any source")

// SourceFetcher retrieves upstream documents. Implemented by fetch.Client.
type SourceFetcher interface {
	Bytes(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
	HTML(ctx context.Context, rawURL string, timeout time.Duration) (string, error)
	Archive(ctx context.Context, rawURL string, timeout time.Duration) (*zip.Reader, error)
}

// PortraitFetcher downloads one member's portrait. Implemented by
// photos.Downloader.
type PortraitFetcher interface {
	Fetch(ctx context.Context, candidates []string, dest string) bool
}

// Pipeline runs the scrape end to end, sequentially.
type Pipeline struct {
	cfg       config.Config
	fetcher   SourceFetcher
	portraits PortraitFetcher
	logger    *zap.Logger
}

// New wires a Pipeline.
func New(cfg config.Config, fetcher SourceFetcher, portraits PortraitFetcher, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:       cfg,
		fetcher:   fetcher,
		portraits: portraits,
		logger:    logger,
	}
}

// Run executes the scrape. Individual source failures degrade to empty
// record sets; only both chambers coming back empty aborts the run.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := p.logger.With(zap.String("run_id", uuid.NewString()))

	if err := p.setupDirectories(); err != nil {
		return err
	}

	deputies := p.collectDeputies(ctx, logger)
	logger.Info("deputies parsed", zap.Int("count", len(deputies)))

	senators := p.collectSenators(ctx, logger)
	logger.Info("senators parsed", zap.Int("count", len(senators)))

	if len(deputies) == 0 && len(senators) == 0 {
		return ErrNoRecords
	}

	if len(deputies) > 0 {
		deputies = p.downloadPortraits(ctx, logger, deputies, member.ChamberDeputy)
	}
	if len(senators) > 0 {
		senators = p.downloadPortraits(ctx, logger, senators, member.ChamberSenator)
	}

	if err := p.persist(logger, deputies, member.ChamberDeputy); err != nil {
		return err
	}
	if err := p.persist(logger, senators, member.ChamberSenator); err != nil {
		return err
	}

	logger.Info("scrape finished",
		zap.Int("deputies", len(deputies)),
		zap.Int("senators", len(senators)),
	)
	return nil
}

func (p *Pipeline) setupDirectories() error {
	dirs := []string{
		p.cfg.Output.DataDir,
		filepath.Join(p.cfg.Output.PhotosDir, chamberDir(member.ChamberDeputy)),
		filepath.Join(p.cfg.Output.PhotosDir, chamberDir(member.ChamberSenator)),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	return nil
}

// collectDeputies parses the open-data archive, falling back to the flat
// member API when the archive yields nothing.
func (p *Pipeline) collectDeputies(ctx context.Context, logger *zap.Logger) []member.Record {
	src := p.cfg.Sources

	zr, err := p.fetcher.Archive(ctx, src.DeputyArchive, p.cfg.ArchiveTimeout())
	if err != nil {
		logger.Warn("deputy archive unavailable", zap.String("url", src.DeputyArchive), zap.Error(err))
	}

	var records []member.Record
	if zr != nil {
		records = assemblee.ParseArchive(zr, assemblee.Options{
			Legislature: src.Legislature,
			PhotoURL:    src.DeputyPhoto,
		}, logger)
	}
	if len(records) > 0 {
		return records
	}

	logger.Info("falling back to deputy member api", zap.String("url", src.DeputyAPI))
	payload, err := p.fetcher.Bytes(ctx, src.DeputyAPI, p.cfg.PageTimeout())
	if err != nil {
		logger.Warn("deputy api unavailable", zap.String("url", src.DeputyAPI), zap.Error(err))
		return nil
	}
	records, err = assemblee.ParseAPI(payload, assemblee.APIOptions{
		PhotoURL:       src.DeputyPhoto,
		LegacyPhotoURL: src.DeputyPhotoOld,
	})
	if err != nil {
		logger.Warn("deputy api payload malformed", zap.Error(err))
		return nil
	}
	return records
}

// collectSenators joins the listing page with the group registry. A
// missing registry degrades every senator to non-attached; a missing
// listing yields no senators at all.
func (p *Pipeline) collectSenators(ctx context.Context, logger *zap.Logger) []member.Record {
	src := p.cfg.Sources

	html, err := p.fetcher.HTML(ctx, src.SenatorList, p.cfg.PageTimeout())
	if err != nil {
		logger.Warn("senator list unavailable", zap.String("url", src.SenatorList), zap.Error(err))
		return nil
	}
	entries, err := senat.ParseListing(html)
	if err != nil {
		logger.Warn("senator list unparseable", zap.Error(err))
		return nil
	}

	groups := map[string]member.Group{}
	payload, err := p.fetcher.Bytes(ctx, src.SenatorData, p.cfg.PageTimeout())
	if err != nil {
		logger.Warn("senator registry unavailable", zap.String("url", src.SenatorData), zap.Error(err))
	} else if parsed, perr := senat.ParseRegistry(payload); perr != nil {
		logger.Warn("senator registry malformed", zap.Error(perr))
	} else {
		groups = parsed
	}

	return senat.Merge(entries, groups, src.SenatorPhoto)
}

// downloadPortraits enriches records with local portrait paths and drops
// the ones whose every candidate failed; the published dataset only lists
// members with a usable photo.
func (p *Pipeline) downloadPortraits(
	ctx context.Context,
	logger *zap.Logger,
	records []member.Record,
	chamber member.Chamber,
) []member.Record {
	subdir := chamberDir(chamber)
	tracker := progress.NewTracker(progress.Config{
		Label:      subdir,
		Total:      len(records),
		Interval:   p.cfg.Progress,
		PauseEvery: p.cfg.Photos.PauseEvery,
		Pause:      p.cfg.Pause(),
	}, logger)

	logger.Info("downloading portraits", zap.String("chamber", subdir), zap.Int("total", len(records)))

	kept := make([]member.Record, 0, len(records))
	for _, rec := range records {
		dest := filepath.Join(p.cfg.Output.PhotosDir, subdir, rec.ID+".jpg")

		ok := len(rec.PhotoURLs) > 0 && p.portraits.Fetch(ctx, rec.PhotoURLs, dest)
		if ok {
			rec.Photo = filepath.ToSlash(filepath.Join("photos", subdir, rec.ID+".jpg"))
			kept = append(kept, rec)
		} else {
			rec.Photo = ""
		}
		tracker.Record(ok)
	}

	logger.Info("portrait downloads finished",
		zap.String("chamber", subdir),
		zap.Int("ok", tracker.OK()),
		zap.Int("failed", tracker.Failed()),
	)
	return kept
}

// persist writes the chamber dataset when it has records and logs its
// group distribution. Empty chambers write nothing.
func (p *Pipeline) persist(logger *zap.Logger, records []member.Record, chamber member.Chamber) error {
	if len(records) == 0 {
		return nil
	}
	path := filepath.Join(p.cfg.Output.DataDir, chamberDir(chamber)+".json")
	if err := dataset.Write(path, records); err != nil {
		return err
	}
	logger.Info("dataset written", zap.String("path", path), zap.Int("records", len(records)))
	dataset.LogDistribution(logger, chamberDir(chamber), records)
	return nil
}

func chamberDir(chamber member.Chamber) string {
	if chamber == member.ChamberSenator {
		return "senateurs"
	}
	return "deputes"
}
