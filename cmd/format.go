package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/s0up4200/plexwalk/filter"
	"github.com/s0up4200/plexwalk/plex"
	"github.com/s0up4200/plexwalk/walker"
)

const ruleWidth = 80

func rule(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("━", ruleWidth))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printServerInfo(w io.Writer, info *plex.ServerInfo) {
	fmt.Fprintf(w, "Server:     %s\n", info.FriendlyName)
	fmt.Fprintf(w, "Identifier: %s\n", info.MachineIdentifier)
	fmt.Fprintf(w, "Version:    %s\n", info.Version)
	fmt.Fprintf(w, "Platform:   %s %s\n", info.Platform, info.PlatformVersion)
	if info.MyPlex && info.MyPlexUsername != "" {
		fmt.Fprintf(w, "Plex user:  %s\n", info.MyPlexUsername)
	}
	if len(info.Features) > 0 {
		keys := make([]string, len(info.Features))
		for i, f := range info.Features {
			keys[i] = f.Key
		}
		fmt.Fprintf(w, "Endpoints:  %s\n", strings.Join(keys, ", "))
	}
}

func printDirectories(w io.Writer, title string, dirs []plex.Directory) {
	if title != "" {
		fmt.Fprintf(w, "%s\n", title)
	}
	if len(dirs) == 0 {
		fmt.Fprintln(w, "No directories.")
		return
	}

	rule(w)
	fmt.Fprintf(w, "%-8s %-24s %s\n", "KIND", "KEY", "TITLE")
	rule(w)
	for _, d := range dirs {
		fmt.Fprintf(w, "%-8s %-24s %s\n", d.Kind, truncate(d.Key(), 24), d.Title())
	}
}

func printSection(w io.Writer, key string, section *plex.LibrarySection) {
	heading := section.Title
	if section.Secondary != "" {
		heading += " / " + section.Secondary
	}
	fmt.Fprintf(w, "%s (key %s, %d entries)\n", heading, key, section.Size)
	if section.Paging != nil {
		fmt.Fprintf(w, "Showing from offset %d of %d\n", section.Paging.Offset, section.Paging.TotalSize)
	}

	if len(section.Directory) > 0 {
		fmt.Fprintln(w)
		printDirectories(w, "", section.Directory)
	}

	if len(section.Metadata) > 0 {
		records := make([]filter.Record, len(section.Metadata))
		for i, m := range section.Metadata {
			records[i] = filter.FromMetadatum(m, key)
		}
		fmt.Fprintln(w)
		printRecords(w, records)
	}
}

func printRecords(w io.Writer, records []filter.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records found.")
		return
	}

	fmt.Fprintf(w, "Found %d %s:\n", len(records), plural(len(records), "record", "records"))
	rule(w)
	fmt.Fprintf(w, "%-8s %-48s %-6s %s\n", "TYPE", "TITLE", "YEAR", "KEY")
	rule(w)
	for _, r := range records {
		year := ""
		if r.Year > 0 {
			year = fmt.Sprint(r.Year)
		}
		fmt.Fprintf(w, "%-8s %-48s %-6s %s\n", r.Type, truncate(r.Title, 48), year, r.Key)
	}
}

func printWalkResult(w io.Writer, result *walker.Result) {
	if result == nil {
		return
	}
	fmt.Fprintf(w, "Levels:   %d\n", result.Levels)
	fmt.Fprintf(w, "Fetched:  %d\n", result.Fetched)
	fmt.Fprintf(w, "Errors:   %d\n", result.Errors)
	fmt.Fprintf(w, "Frontier: %d\n", len(result.Frontier))

	if len(result.Failures) == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailed keys:")
	for _, f := range result.Failures {
		fmt.Fprintf(w, "  • %s: %v\n", f.Key, f.Err)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
