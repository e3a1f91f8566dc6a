package techfix

import (
	"context"
	"net/url"

	"github.com/techfixpro/appkit/core/logger"
	"github.com/techfixpro/appkit/pkg/async"
)

// DashboardStats summarizes the workload shown on the dashboard.
type DashboardStats struct {
	OpenTickets      int
	CompletedTickets int
	SpareParts       int
	Customers        int
}

// DashboardStats fetches the dashboard counters, querying the collections in
// parallel. Counters degrade to zero when a collection cannot be fetched
// from the backend or locally, so a partially offline dashboard still
// renders.
func (app *App) DashboardStats(ctx context.Context) (DashboardStats, error) {
	count := func(ctx context.Context, q collectionQuery) (int, error) {
		list, err := app.fetchCollection(ctx, q.collection, q.query)
		if err != nil {
			app.log.Warn("dashboard counter unavailable",
				logger.Store(q.collection), logger.Error(err))
			return 0, nil
		}
		if q.status == "" {
			return len(list.Data), nil
		}
		n := 0
		for _, item := range list.Data {
			if item["status"] == q.status {
				n++
			}
		}
		return n, nil
	}

	results, err := async.WaitAll(
		async.Async(ctx, collectionQuery{collection: "tickets", status: "open"}, count),
		async.Async(ctx, collectionQuery{collection: "tickets", status: "completed"}, count),
		async.Async(ctx, collectionQuery{collection: "spare_parts"}, count),
		async.Async(ctx, collectionQuery{collection: "customers"}, count),
	)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		OpenTickets:      results[0],
		CompletedTickets: results[1],
		SpareParts:       results[2],
		Customers:        results[3],
	}, nil
}

type collectionQuery struct {
	collection string
	status     string
	query      url.Values
}
