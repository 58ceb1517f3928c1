// Package paths reads navigation paths from tab-separated files.
//
// # Format
//
// The reader targets the Wikispeedia "paths_finished.tsv" layout: lines
// starting with '#' are comments, every record has the tab-separated columns
//
//	hashedIpAddress  timestamp  durationInSec  path  rating
//
// and the path column lists visited articles separated by ';', with '<'
// marking a click on the browser's back button:
//
//	14th_century;Europe;Africa;<;Asia;China
//
// Headerless files with a single column (one path per line) are read as
// well. A header row whose path column reads "path" is skipped.
//
// # Problems
//
// Records with too few columns are not fatal: they are skipped and listed
// in [Collection.Skipped] with their line number. Set [Options.Strict] to
// turn them into INVALID_FORMAT errors instead.
//
// # Usage
//
//	c, err := paths.ReadFile(ctx, "paths_finished.tsv", paths.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	u := seqgraph.NewUniverse(c.Sequences, seqgraph.DefaultSentinel)
package paths
