package screens

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/logging"
)

// scoped adds the scope filters to every query. Unpaged results are also
// filtered locally, since whole-collection sources may ignore filters.
func scoped[T any](src listview.Source[T], scope map[string]string, schema listview.Schema[T]) listview.Source[T] {
	return listview.SourceFunc[T](func(ctx context.Context, q listview.Query) (api.ListResult[T], error) {
		q.Filters = maps.Clone(q.Filters)
		if q.Filters == nil {
			q.Filters = make(map[string]string, len(scope))
		}
		maps.Copy(q.Filters, scope)
		res, err := src.List(ctx, q)
		if err != nil || !res.IsOk() || !q.Unpaged {
			return res, err
		}
		page := res.Value()
		page.Items = listview.Apply(page.Items, "", scope, schema)
		return api.OkWithMessage(page, res.Message()), nil
	})
}

// pompisteSource lists the pompistes of every station, one request per
// station. Stations that fail are skipped; the load only fails when all do.
func pompisteSource(client *api.Client, limit int, logger logging.Logger) listview.Source[domain.Pompiste] {
	return listview.SourceFunc[domain.Pompiste](func(ctx context.Context, q listview.Query) (api.ListResult[domain.Pompiste], error) {
		stations, err := api.List[domain.Station](ctx, client, "stations", api.ListParams{})
		if err != nil {
			return api.ListResult[domain.Pompiste]{}, err
		}
		if !stations.IsOk() {
			return api.Fail[api.Page[domain.Pompiste]](stations.Message()), nil
		}

		perStation := listview.FanOut(ctx, stations.Value().Items, limit, logger,
			func(ctx context.Context, st domain.Station) ([]domain.Pompiste, error) {
				res, err := api.List[domain.Pompiste](ctx, client, "pompistes", api.ListParams{
					Filters: map[string]string{"stationId": st.ID},
				})
				page, err := listview.ResultErr(res, err)
				if err != nil {
					return nil, fmt.Errorf("station %s: %w", st.Name, err)
				}
				for i := range page.Items {
					page.Items[i].StationName = st.Name
				}
				return page.Items, nil
			})

		items := []domain.Pompiste{}
		var failures []error
		for _, f := range perStation {
			if !f.OK() {
				failures = append(failures, f.Err)
				continue
			}
			items = append(items, f.Value...)
		}
		if len(failures) > 0 && len(failures) == len(perStation) {
			return failedList[domain.Pompiste](failures[0])
		}
		if len(failures) > 0 {
			logger.Warn("some stations could not be loaded", "failed", len(failures), "stations", len(perStation))
			return api.OkWithMessage(api.Page[domain.Pompiste]{Items: items, Total: api.UnknownTotal},
				fmt.Sprintf("%d of %d stations could not be loaded", len(failures), len(perStation))), nil
		}
		return api.Ok(api.Page[domain.Pompiste]{Items: items, Total: api.UnknownTotal}), nil
	})
}

// failedList turns a handled failure back into a failed result and keeps
// transport errors as errors.
func failedList[T any](err error) (api.ListResult[T], error) {
	var rej *listview.RejectedError
	if errors.As(err, &rej) {
		return api.Fail[api.Page[T]](rej.Message), nil
	}
	return api.ListResult[T]{}, err
}

// invoiceSource lists invoices and fills in client names the backend left
// out, one request per distinct client. Names that cannot be fetched fall
// back to the client id.
func invoiceSource(client *api.Client, limit int, logger logging.Logger) listview.Source[domain.Invoice] {
	base := listview.APISource[domain.Invoice]{Client: client, Resource: "invoices"}
	return listview.SourceFunc[domain.Invoice](func(ctx context.Context, q listview.Query) (api.ListResult[domain.Invoice], error) {
		res, err := base.List(ctx, q)
		if err != nil || !res.IsOk() {
			return res, err
		}
		page := res.Value()

		seen := map[string]bool{}
		var ids []string
		for _, inv := range page.Items {
			if inv.ClientName == "" && inv.ClientID != "" && !seen[inv.ClientID] {
				seen[inv.ClientID] = true
				ids = append(ids, inv.ClientID)
			}
		}
		if len(ids) == 0 {
			return res, nil
		}

		clients := listview.FanOut(ctx, ids, limit, logger, func(ctx context.Context, id string) (domain.Client, error) {
			res, err := api.Get[domain.Client](ctx, client, "clients", id)
			return listview.ResultErr(res, err)
		})
		names := make(map[string]string, len(ids))
		for i, f := range clients {
			if f.OK() {
				names[ids[i]] = f.Value.Name
			}
		}
		for i := range page.Items {
			if name, ok := names[page.Items[i].ClientID]; ok && page.Items[i].ClientName == "" {
				page.Items[i].ClientName = name
			}
		}
		return api.OkWithMessage(page, res.Message()), nil
	})
}
