package alveo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"annbridge/internal/domain"
	"annbridge/internal/sink"
)

// DefaultBatchSize is the number of records sent per POST.
const DefaultBatchSize = 200

type annotationSet struct {
	Annotations []domain.Record `json:"annotations"`
}

// Uploader is a Sink posting records to the annotations of each item.
// Records already on the item are skipped.
type Uploader struct {
	client    *Client
	batchSize int
	logger    *slog.Logger
}

func NewUploader(client *Client, batchSize int, logger *slog.Logger) *Uploader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{client: client, batchSize: batchSize, logger: logger}
}

// Existing returns the annotations already stored for an item.
func (u *Uploader) Existing(ctx context.Context, item domain.Item) ([]domain.Record, error) {
	var set annotationSet
	if err := u.client.getJSON(ctx, annotationsURL(item), &set); err != nil {
		return nil, err
	}
	return set.Annotations, nil
}

func (u *Uploader) Upload(ctx context.Context, item domain.Item, records []domain.Record) (domain.UploadResult, error) {
	existing, err := u.Existing(ctx, item)
	if err != nil {
		return domain.UploadResult{}, fmt.Errorf("item %s: existing annotations: %w", item.ID, err)
	}
	fresh, skipped := sink.NewSeen(existing).Filter(records)
	res := domain.UploadResult{Skipped: skipped}
	for start := 0; start < len(fresh); start += u.batchSize {
		end := min(start+u.batchSize, len(fresh))
		if err := u.client.postJSON(ctx, annotationsURL(item), annotationSet{Annotations: fresh[start:end]}); err != nil {
			return res, fmt.Errorf("item %s: upload batch at %d: %w", item.ID, start, err)
		}
		res.Sent += end - start
		u.logger.Debug("uploaded batch", "item", item.ID, "records", end-start)
	}
	return res, nil
}

func annotationsURL(item domain.Item) string {
	return strings.TrimRight(item.URL, "/") + "/annotations"
}
