package teamimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/gatherhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LegacyTeams reads the old teams collection page by page.
type LegacyTeams interface {
	Count(ctx context.Context) (int64, error)
	Page(ctx context.Context, skip, limit int64) ([]models.LegacyTeam, error)
}

// Teams is the destination teams collection.
type Teams interface {
	Insert(ctx context.Context, t models.Team) error
	Count(ctx context.Context) (int64, error)
	PageIDs(ctx context.Context, skip, limit int64) ([]primitive.ObjectID, error)
	SetReviewsAmount(ctx context.Context, id primitive.ObjectID, n int64) error
}

// Reviews counts reviews per team.
type Reviews interface {
	CountByTeam(ctx context.Context, team primitive.ObjectID) (int64, error)
}

// Stats summarises a run.
type Stats struct {
	Read     int64
	Imported int64
	Skipped  int64
	Avatars  int64
	Counted  int64
}

// Runner copies legacy teams into the teams collection, then fills in
// each team's review count.
type Runner struct {
	legacy      LegacyTeams
	teams       Teams
	reviews     Reviews
	avatars     *Avatars
	pageSize    int64
	concurrency int
	log         *zap.Logger
}

func NewRunner(legacy LegacyTeams, teams Teams, reviews Reviews, avatars *Avatars, cfg Config, logger *zap.Logger) *Runner {
	return &Runner{
		legacy:      legacy,
		teams:       teams,
		reviews:     reviews,
		avatars:     avatars,
		pageSize:    cfg.PageSize,
		concurrency: cfg.Concurrency,
		log:         logger,
	}
}

// Run performs both passes. The first error stops the run.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	log := r.log.With(zap.String("run_id", uuid.NewString()))
	var st Stats

	if err := r.importTeams(ctx, log, &st); err != nil {
		return st, err
	}
	if err := r.countReviews(ctx, log, &st); err != nil {
		return st, err
	}
	log.Info("team import finished",
		zap.Int64("read", st.Read),
		zap.Int64("imported", st.Imported),
		zap.Int64("skipped", st.Skipped),
		zap.Int64("avatars", st.Avatars),
		zap.Int64("review_counts", st.Counted))
	return st, nil
}

func (r *Runner) importTeams(ctx context.Context, log *zap.Logger, st *Stats) error {
	total, err := r.legacy.Count(ctx)
	if err != nil {
		return fmt.Errorf("count legacy teams: %w", err)
	}
	log.Info("legacy teams to import", zap.Int64("total", total))

	for skip := int64(0); skip < total; {
		page, err := r.legacy.Page(ctx, skip, r.pageSize)
		if err != nil {
			return fmt.Errorf("read legacy teams at %d: %w", skip, err)
		}
		if len(page) == 0 {
			break
		}
		if err := r.importPage(ctx, log, page, st); err != nil {
			return fmt.Errorf("import legacy teams at %d: %w", skip, err)
		}
		skip += int64(len(page))
		st.Read = skip
		log.Info("legacy teams processed", zap.Int64("done", skip), zap.Int64("total", total))
	}
	return nil
}

// importPage uploads every avatar of the page before inserting any team,
// so no inserted team points at an object that failed to upload.
func (r *Runner) importPage(ctx context.Context, log *zap.Logger, page []models.LegacyTeam, st *Stats) error {
	teams := make([]models.Team, 0, len(page))
	images := make([]string, 0, len(page))
	for _, old := range page {
		t, ok := Transform(old)
		if !ok {
			st.Skipped++
			log.Warn("skipping legacy team without a name", zap.String("team_id", old.ID.Hex()))
			continue
		}
		teams = append(teams, t)
		images = append(images, old.Image)
	}

	uploaded := make([]bool, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range teams {
		if !NeedsAvatar(images[i]) {
			continue
		}
		g.Go(func() error {
			av, err := r.avatars.Prepare(gctx, images[i])
			if errors.Is(err, ErrUnsupportedImage) {
				log.Warn("legacy avatar format not supported, team imported without avatar",
					zap.String("team_id", teams[i].ID.Hex()), zap.String("image", images[i]))
				return nil
			}
			if err != nil {
				return fmt.Errorf("team %s avatar: %w", teams[i].ID.Hex(), err)
			}
			if err := r.avatars.Upload(gctx, av); err != nil {
				return fmt.Errorf("team %s avatar: %w", teams[i].ID.Hex(), err)
			}
			teams[i].Avatar = av.URL
			uploaded[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range teams {
		g.Go(func() error {
			if err := r.teams.Insert(gctx, teams[i]); err != nil {
				return fmt.Errorf("insert team %s: %w", teams[i].ID.Hex(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, ok := range uploaded {
		if ok {
			st.Avatars++
		}
	}
	st.Imported += int64(len(teams))
	return nil
}

func (r *Runner) countReviews(ctx context.Context, log *zap.Logger, st *Stats) error {
	total, err := r.teams.Count(ctx)
	if err != nil {
		return fmt.Errorf("count teams: %w", err)
	}
	log.Info("teams to count reviews for", zap.Int64("total", total))

	for skip := int64(0); skip < total; {
		ids, err := r.teams.PageIDs(ctx, skip, r.pageSize)
		if err != nil {
			return fmt.Errorf("read teams at %d: %w", skip, err)
		}
		if len(ids) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.concurrency)
		for _, id := range ids {
			g.Go(func() error {
				n, err := r.reviews.CountByTeam(gctx, id)
				if err != nil {
					return fmt.Errorf("count reviews of team %s: %w", id.Hex(), err)
				}
				if err := r.teams.SetReviewsAmount(gctx, id, n); err != nil {
					return fmt.Errorf("update team %s: %w", id.Hex(), err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		skip += int64(len(ids))
		st.Counted = skip
		log.Info("review counts updated", zap.Int64("done", skip), zap.Int64("total", total))
	}
	return nil
}
