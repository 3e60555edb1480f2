// Package core provides the table model shared by the grid, export and web layers.
//
// The package is deliberately small: everything that renders, filters or
// serializes a table lives elsewhere and depends on the types defined here.
//
// # Tables and sources
//
// A [Table] is a snapshot of tabular markup: header, body and footer row
// groups of [Cell] values that may span several columns or rows. Tables are
// obtained from a [TableSource] by identifier, the same way a page script
// finds an element by id. Sources must re-read their backing data on every
// [TableSource.Lookup] so exports always reflect the current state.
//
// A missing table is reported with [ErrTableNotFound]; callers test for it
// with errors.Is.
//
// # Registry
//
// A [Registry] binds identifiers to sources and display information and is
// itself a TableSource:
//
//	reg := core.NewRegistry()
//	reg.MustRegister(core.TableDefinition{
//	    Info:   core.TableInfo{Key: "summaryTable", Group: "DI", Label: "Spread Summary"},
//	    Source: htmlSource,
//	})
//	t, err := reg.Lookup(ctx, "summaryTable")
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - TBL001-TBL002: Table lookup errors
//   - SRC001-SRC005: Source read errors (files, markup, workbooks, database, size)
//   - EXP001-EXP006: Export errors (busy, workbook, pdf, cancellation)
//   - RATE001: Rate limiting
package core
