// Package dom reads tables out of HTML documents.
//
// It plays the part of a page's document for server-side code: a table is
// located by its id attribute and converted to a [core.Table], keeping
// colspan/rowspan and the data-v/data-t typing attributes understood by
// the export package.
//
// [FileSource] re-reads and re-parses its file on every lookup, so the
// table returned is always the one currently on disk.
package dom
