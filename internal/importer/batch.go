package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bittools/skyhub-importer/internal/config"
)

type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultWarning ResultStatus = "warning"
)

// Result is the per-reference outcome of a batch import.
type Result struct {
	Reference string       `json:"reference,omitempty"`
	Status    ResultStatus `json:"status"`
	Message   string       `json:"message"`
}

// Runner processes a list of marketplace reference codes sequentially, one
// reference fully before the next. A bad reference produces a warning and
// never aborts the batch.
type Runner struct {
	gateway   Gateway
	processor *Processor
	cfg       *config.Config
	logger    *slog.Logger
}

func NewRunner(gateway Gateway, processor *Processor, cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		gateway:   gateway,
		processor: processor,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run imports each reference for the given store. References are trimmed
// and deduplicated first; an empty list yields a single warning and no
// processing.
func (r *Runner) Run(ctx context.Context, storeID int64, references []string) []Result {
	refs := normalizeReferences(references)
	if len(refs) == 0 {
		return []Result{{Status: ResultWarning, Message: "no order reference was informed"}}
	}

	scope := r.cfg.Scope(storeID)
	if scope == nil {
		return []Result{{Status: ResultWarning, Message: fmt.Sprintf("store %d is not configured", storeID)}}
	}

	results := make([]Result, 0, len(refs))
	for _, reference := range refs {
		results = append(results, r.importReference(ctx, *scope, reference))
	}

	return results
}

func (r *Runner) importReference(ctx context.Context, scope config.StoreScope, reference string) Result {
	payload, err := r.gateway.FetchOrder(ctx, reference)
	if err != nil {
		r.logger.Error("failed to fetch order from marketplace", "reference", reference, "error", err)
		return Result{
			Reference: reference,
			Status:    ResultWarning,
			Message:   fmt.Sprintf("the order reference %q could not be fetched from SkyHub", reference),
		}
	}

	if payload == nil {
		return Result{
			Reference: reference,
			Status:    ResultWarning,
			Message:   fmt.Sprintf("the order reference %q does not exist in SkyHub", reference),
		}
	}

	_, err = r.processor.ImportOrder(ctx, scope, payload)
	switch {
	case errors.Is(err, ErrEmptyProductSet):
		return Result{
			Reference: reference,
			Status:    ResultWarning,
			Message:   fmt.Sprintf("the order reference %q has no item matching the local catalog", reference),
		}
	case err != nil:
		return Result{
			Reference: reference,
			Status:    ResultWarning,
			Message:   fmt.Sprintf("the order reference %q could not be created, see the logs for details", reference),
		}
	default:
		return Result{
			Reference: reference,
			Status:    ResultSuccess,
			Message:   fmt.Sprintf("the order reference %q was successfully imported", reference),
		}
	}
}

// normalizeReferences trims every reference, drops empties and removes
// duplicates while keeping first-seen order.
func normalizeReferences(references []string) []string {
	seen := make(map[string]struct{}, len(references))
	out := make([]string, 0, len(references))

	for _, reference := range references {
		reference = strings.TrimSpace(reference)
		if reference == "" {
			continue
		}
		if _, dup := seen[reference]; dup {
			continue
		}
		seen[reference] = struct{}{}
		out = append(out, reference)
	}

	return out
}
