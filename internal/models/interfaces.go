package models

import "context"

type SiteFinder interface {
	FindSite(ctx context.Context, name string) (*Site, error)
	ListSites(ctx context.Context) ([]Site, error)
	FindNearestSites(ctx context.Context, lat, lon float64, limit int) ([]Site, error)
}
