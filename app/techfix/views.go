package techfix

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/techfixpro/appkit/core/apiclient"
	"github.com/techfixpro/appkit/core/logger"
	"github.com/techfixpro/appkit/core/router"
	"github.com/techfixpro/appkit/core/storage"
)

func (app *App) showLogin(ctx context.Context, params router.Params) error {
	app.log.Info("showing login view")
	return nil
}

func (app *App) showDashboard(ctx context.Context, params router.Params) error {
	stats, err := app.DashboardStats(ctx)
	if err != nil {
		return err
	}

	app.log.Info("showing dashboard",
		logger.Count("open_tickets", stats.OpenTickets),
		logger.Count("completed_tickets", stats.CompletedTickets),
		logger.Count("spare_parts", stats.SpareParts),
		logger.Count("customers", stats.Customers),
	)
	return nil
}

func (app *App) showTickets(ctx context.Context, params router.Params) error {
	list, err := app.fetchCollection(ctx, "tickets", nil)
	if err != nil {
		return err
	}
	app.log.Info("showing tickets", logger.Count("count", len(list.Data)))
	return nil
}

func (app *App) showNewTicket(ctx context.Context, params router.Params) error {
	app.log.Info("showing new ticket form")
	return nil
}

func (app *App) showTicketDetail(ctx context.Context, params router.Params) error {
	return app.showDetail(ctx, "tickets", params["id"])
}

func (app *App) showParts(ctx context.Context, params router.Params) error {
	list, err := app.fetchCollection(ctx, "spare_parts", nil)
	if err != nil {
		return err
	}
	app.log.Info("showing spare parts", logger.Count("count", len(list.Data)))
	return nil
}

func (app *App) showNewPart(ctx context.Context, params router.Params) error {
	app.log.Info("showing new spare part form")
	return nil
}

func (app *App) showPartDetail(ctx context.Context, params router.Params) error {
	return app.showDetail(ctx, "spare_parts", params["id"])
}

func (app *App) showCustomers(ctx context.Context, params router.Params) error {
	list, err := app.fetchCollection(ctx, "customers", nil)
	if err != nil {
		return err
	}
	app.log.Info("showing customers", logger.Count("count", len(list.Data)))
	return nil
}

func (app *App) showProfile(ctx context.Context, params router.Params) error {
	user, err := app.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	app.log.Info("showing profile", logger.Key("username", user.Username))
	return nil
}

func (app *App) showSettings(ctx context.Context, params router.Params) error {
	app.log.Info("showing settings view")
	return nil
}

// fetchCollection reads a collection from the API, mirroring successful
// responses into the cache and the local record store. When the backend is
// unreachable it serves the cached response, then the local store, so views
// keep working offline.
func (app *App) fetchCollection(ctx context.Context, collection string, query url.Values) (*apiclient.ListResponse, error) {
	endpoint := "/" + collection
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	list, err := app.api.GetCollection(ctx, collection, query)
	if err == nil {
		if cerr := app.store.CacheResponse(ctx, endpoint, list, 0); cerr != nil {
			app.log.Warn("failed to cache collection response", logger.Error(cerr))
		}
		app.mirrorRecords(ctx, collection, list.Data)
		return list, nil
	}

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || !(apiErr.IsNetworkError() || apiErr.IsTimeout()) {
		return nil, err
	}

	app.log.Warn("backend unreachable, serving local data",
		logger.Endpoint(endpoint), logger.Error(err))

	var cached apiclient.ListResponse
	if cerr := app.store.CachedResponse(ctx, endpoint, &cached); cerr == nil {
		return &cached, nil
	}

	records, serr := app.store.Records(ctx, collection)
	if serr != nil {
		return nil, err
	}
	fallback := &apiclient.ListResponse{Data: make([]map[string]any, 0, len(records))}
	for _, rec := range records {
		fallback.Data = append(fallback.Data, rec)
	}
	return fallback, nil
}

func (app *App) showDetail(ctx context.Context, collection, id string) error {
	item, err := app.api.GetItem(ctx, collection, id)
	if err == nil {
		app.log.Info("showing record detail", logger.Store(collection), logger.Key("id", id))
		app.mirrorRecords(ctx, collection, []map[string]any{item.Data})
		return nil
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && (apiErr.IsNetworkError() || apiErr.IsTimeout()) {
		if rec, serr := app.store.GetRecord(ctx, collection, id); serr == nil {
			app.log.Info("showing record detail from local store",
				logger.Store(collection), logger.Key("id", id), logger.Count("fields", len(rec)))
			return nil
		}
	}
	return err
}

// mirrorRecords copies fetched records into the local store for offline
// reads. Mirror failures degrade silently, the fetched data is still shown.
func (app *App) mirrorRecords(ctx context.Context, collection string, items []map[string]any) {
	for _, item := range items {
		if err := app.store.PutRecord(ctx, collection, storage.Record(item)); err != nil {
			app.log.Warn("failed to mirror record", logger.Store(collection), logger.Error(err))
			return
		}
	}
}

// CreateTicket submits a new ticket. Every ticket carries a client-generated
// reference so a submission interrupted by a network failure can be
// reconciled instead of duplicated; unreachable backends queue the ticket
// locally under that reference.
func (app *App) CreateTicket(ctx context.Context, data map[string]any) (string, error) {
	ref := uuid.NewString()
	data["client_ref"] = ref

	item, err := app.api.CreateItem(ctx, "tickets", data)
	if err == nil {
		app.mirrorRecords(ctx, "tickets", []map[string]any{item.Data})
		if cerr := app.store.InvalidateCached(ctx, "/tickets"); cerr != nil {
			app.log.Warn("failed to invalidate tickets cache", logger.Error(cerr))
		}
		return ref, nil
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && (apiErr.IsNetworkError() || apiErr.IsTimeout()) {
		local := storage.Record{}
		for k, v := range data {
			local[k] = v
		}
		local["id"] = fmt.Sprintf("pending-%s", ref)
		local["status"] = "pending_sync"
		if serr := app.store.PutRecord(ctx, "tickets", local); serr != nil {
			return "", serr
		}
		app.log.Info("queued ticket for sync", logger.Key("client_ref", ref))
		return ref, nil
	}

	return "", err
}
