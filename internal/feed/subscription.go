package feed

import (
	"context"
	"log/slog"

	"histock/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
)

// Subscription is a standing watch on one collection. Every delivery on
// Snapshots is the full query result, never a diff. The channel closes when
// the subscribing context is cancelled and the underlying stream is released.
type Subscription[T any] struct {
	snapshots chan T
}

func (s *Subscription[T]) Snapshots() <-chan T {
	return s.snapshots
}

// Watch opens a change stream on coll and re-runs load after every change
// event, delivering complete snapshots. An initial snapshot is delivered
// before the first change. Deliveries coalesce: if the consumer lags, a
// pending snapshot is replaced by the fresher one rather than queued.
func Watch[T any](ctx context.Context, coll *mongo.Collection, load func(context.Context) (T, error)) (*Subscription[T], error) {
	stream, err := coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, err
	}

	sub := &Subscription[T]{snapshots: make(chan T, 1)}

	go func() {
		defer close(sub.snapshots)
		defer stream.Close(context.Background())

		sub.deliver(ctx, coll, load)
		for stream.Next(ctx) {
			sub.deliver(ctx, coll, load)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			logger.Error(ctx, "Change stream terminated",
				slog.String("collection", coll.Name()),
				slog.String("error", err.Error()),
			)
		}
	}()

	return sub, nil
}

func (s *Subscription[T]) deliver(ctx context.Context, coll *mongo.Collection, load func(context.Context) (T, error)) {
	snapshot, err := load(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn(ctx, "Snapshot load failed, projection stays stale",
				slog.String("collection", coll.Name()),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	select {
	case s.snapshots <- snapshot:
	default:
		// Drop the stale pending snapshot, keep the fresh one.
		select {
		case <-s.snapshots:
		default:
		}
		select {
		case s.snapshots <- snapshot:
		default:
		}
	}
}
