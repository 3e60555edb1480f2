// Package source provides table sources beyond HTML pages, and the YAML
// manifest that declares which table each identifier refers to.
//
// A manifest looks like:
//
//	tables:
//	  - id: summaryTable
//	    group: DI
//	    label: Resumo de spreads
//	    path: pages/summary_di.html
//	  - id: ipcaTable
//	    group: IPCA
//	    variant: toolbar
//	    path: data/ipca.xlsx
//	    sheet: Resumo
//	  - id: bondUniverse
//	    group: DB
//	    query: SELECT ticker, maturity, spread FROM bonds ORDER BY ticker
//
// Relative paths are resolved against the manifest's directory. Every
// source re-reads its backing data on each lookup.
package source
