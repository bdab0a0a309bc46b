package usecases

import (
	"context"
	"fmt"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/ports"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/dispatch"
	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/pkg/logging"
)

// FetchAsync fetches points on a new goroutine and calls onComplete exactly
// once, on queue, with either the points or an error wrapping
// domain.ErrFetchFailed. If queue refuses the callback it is dropped and logged.
func FetchAsync(
	ctx context.Context,
	provider ports.PointProvider,
	queue dispatch.Executor,
	onComplete func(domain.Result[[]domain.POI]),
) {
	go func() {
		var res domain.Result[[]domain.POI]
		if points, err := provider.FetchPoints(ctx); err != nil {
			res = domain.Failure[[]domain.POI](fmt.Errorf("%w: %w", domain.ErrFetchFailed, err))
		} else {
			res = domain.Success(points)
		}

		if err := queue.Submit(func() { onComplete(res) }); err != nil {
			logging.FromContext(ctx).Warn("dropping fetch result", "error", err)
		}
	}()
}
