// Package processing turns uploaded item photos into the processed images
// shown in the wardrobe.
package processing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/omara/internal/blob"
	"github.com/erazemk/omara/internal/imaging"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/store"
)

// DefaultFetchLimit caps the size of remote originals.
const DefaultFetchLimit = 10 << 20

// ErrTooLarge is returned when a remote original exceeds the fetch limit.
var ErrTooLarge = errors.New("image exceeds fetch limit")

// Invalidator drops cached wardrobe lists.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Notifier is told about every item state change.
type Notifier interface {
	ItemUpdated(item *model.Item)
}

// Processor processes pending items on a worker pool.
type Processor struct {
	DB         *sql.DB
	Blobs      blob.Store
	Wardrobe   Invalidator
	Notifier   Notifier
	Client     *http.Client
	FetchLimit int64
	Logger     *slog.Logger

	pool *Pool
}

// Options configures a Processor.
type Options struct {
	Workers      int
	QueueSize    int
	FetchLimit   int64
	FetchTimeout time.Duration

	// AllowPrivateNetworks lets remote originals resolve to loopback and
	// private addresses.
	AllowPrivateNetworks bool
}

// New returns a processor. wardrobe and notifier may be nil.
func New(db *sql.DB, blobs blob.Store, wardrobe Invalidator, notifier Notifier, opts Options, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultFetchLimit
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 30 * time.Second
	}
	p := &Processor{
		DB:         db,
		Blobs:      blobs,
		Wardrobe:   wardrobe,
		Notifier:   notifier,
		Client:     newFetchClient(opts.FetchTimeout, opts.AllowPrivateNetworks),
		FetchLimit: opts.FetchLimit,
		Logger:     logger,
	}
	p.pool = NewPool(opts.Workers, opts.QueueSize, func(err error) {
		logger.Error("processing failed", "error", err)
	})
	return p
}

// Start launches the workers and queues every item still pending from a
// previous run. Queueing happens in the background.
func (p *Processor) Start(ctx context.Context) error {
	p.pool.Run(ctx)

	pending, err := store.ListItemsByStatus(ctx, p.DB, model.ItemStatusPending)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	p.Logger.Info("resuming pending items", "count", len(pending))
	go func() {
		for _, item := range pending {
			if err := p.Enqueue(ctx, item.ID); err != nil {
				p.Logger.Warn("resuming pending items stopped", "error", err)
				return
			}
		}
	}()
	return nil
}

// Enqueue schedules an item for processing.
func (p *Processor) Enqueue(ctx context.Context, itemID string) error {
	return p.pool.Submit(ctx, func(ctx context.Context) error {
		return p.Process(ctx, itemID)
	})
}

// Stop stops accepting items and waits for the workers to finish.
func (p *Processor) Stop() {
	p.pool.Close()
	p.pool.Wait()
}

// Process runs one item through the pipeline. Items that are gone or no
// longer pending are skipped. A failure marks the item error_processing;
// the returned error is the original failure.
func (p *Processor) Process(ctx context.Context, itemID string) error {
	item, err := store.GetItem(ctx, p.DB, itemID)
	if err != nil {
		return err
	}
	if item == nil || item.Status != model.ItemStatusPending {
		return nil
	}

	start := time.Now()
	processedURL, err := p.render(ctx, item)
	if err != nil {
		return p.fail(ctx, item, err)
	}
	if err := p.finish(ctx, item, processedURL); err != nil {
		return err
	}
	p.Logger.Debug("render finished", "item_id", item.ID, "duration", time.Since(start))
	return nil
}

// finish records a rendition of item's original. When the item has moved on
// to another image or is gone, the rendition is deleted instead.
func (p *Processor) finish(ctx context.Context, item *model.Item, processedURL string) error {
	applied, err := store.SetItemProcessed(ctx, p.DB, item.ID, item.OriginalImageURL, processedURL)
	if err != nil {
		return err
	}
	if !applied {
		p.Logger.Info("discarding stale processing result", "item_id", item.ID)
		if err := blob.DeleteURL(ctx, p.Blobs, processedURL); err != nil && !errors.Is(err, blob.ErrNotFound) {
			p.Logger.Warn("deleting stale processed image", "item_id", item.ID, "error", err)
		}
		return nil
	}

	p.Logger.Info("item processed", "item_id", item.ID)
	p.changed(ctx, item.ID, item.UserID)
	return nil
}

// fail marks item error_processing unless its original has been replaced
// since the attempt started.
func (p *Processor) fail(ctx context.Context, item *model.Item, cause error) error {
	cause = fmt.Errorf("processing item %s: %w", item.ID, cause)
	applied, err := store.SetItemFailed(ctx, p.DB, item.ID, item.OriginalImageURL)
	if err != nil {
		return errors.Join(cause, err)
	}
	if applied {
		p.changed(ctx, item.ID, item.UserID)
	}
	return cause
}

func (p *Processor) render(ctx context.Context, item *model.Item) (string, error) {
	data, err := p.load(ctx, item.OriginalImageURL)
	if err != nil {
		return "", err
	}
	res, err := imaging.Process(data)
	if err != nil {
		return "", err
	}
	return p.Blobs.Put(ctx, blob.ProcessedImagePath(item.UserID, item.ID), res.Data, res.MIME)
}

func (p *Processor) load(ctx context.Context, url string) ([]byte, error) {
	if blob.IsLocalURL(url) {
		path, err := blob.PathFromURL(url)
		if err != nil {
			return nil, err
		}
		b, err := p.Blobs.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loading original: %w", err)
		}
		return b.Data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching original: %w", err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching original: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching original: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.FetchLimit+1))
	if err != nil {
		return nil, fmt.Errorf("fetching original: %w", err)
	}
	if int64(len(data)) > p.FetchLimit {
		return nil, ErrTooLarge
	}
	return data, nil
}

func (p *Processor) changed(ctx context.Context, itemID, userID string) {
	if p.Wardrobe != nil {
		p.Wardrobe.Invalidate(ctx, userID)
	}
	if p.Notifier == nil {
		return
	}
	item, err := store.GetItem(ctx, p.DB, itemID)
	if err != nil || item == nil {
		return
	}
	p.Notifier.ItemUpdated(item)
}
