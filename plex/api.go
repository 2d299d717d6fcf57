package plex

import "context"

// API is the set of catalog operations the Client provides.
type API interface {
	ServerInformation(ctx context.Context) (*ServerInfo, error)
	LibrarySections(ctx context.Context) (*LibrarySections, error)
	LibrarySection(ctx context.Context, key string) (*LibrarySection, error)
	Search(ctx context.Context, query string) (*SearchResults, error)
}
