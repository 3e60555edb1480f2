// Package export turns live tables into downloadable files.
//
// The main entry point is [Exporter.Export]: it looks a table up by id,
// builds a single-sheet workbook from its current contents and hands the
// workbook to a [Saver]. When the table is not present the user is told so
// through an [Alerter] and nothing is saved.
//
// The package also renders the toolbar formats: CSV, tab separated text for
// the clipboard, a printable HTML page and, through headless Chromium, PDF.
package export
