// Package plex provides a typed client for the Plex Media Server JSON API.
//
// The server wraps every response in a MediaContainer object whose shape
// depends on the endpoint, and several record families inside it are only
// loosely typed on the wire. This package decodes them into closed sets of
// Go variants so callers never have to inspect raw JSON.
//
// # Record families
//
//   - Directory: untagged; the variant (Search, Folder, Section, Genre) is
//     chosen by which fields are present, trying DirectoryMatchOrder in turn
//   - Metadatum: tagged by its "type" field (artist, album, track, episode,
//     movie, show, folder)
//   - Media: optional audio and video facets merged into one object
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := plex.NewClient(
//		"http://plex.local:32400",
//		"your-plex-token",
//		logger,
//		plex.WithTimeout(15*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sections, err := client.LibrarySections(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, dir := range sections.Directories {
//		section, err := client.LibrarySection(ctx, dir.Key())
//		...
//	}
//
// # Error Handling
//
// Every operation is a pass-through: nothing is retried. Failures are one of
//
//   - *TransportError: the request could not be built, sent or read
//   - *StatusError: the server answered with a non-2xx status
//   - *DecodeError: the body did not match the expected records
//
// and can be classified with errors.As:
//
//	var statusErr *plex.StatusError
//	if errors.As(err, &statusErr) && statusErr.IsUnauthorized() {
//		// bad token
//	}
package plex
