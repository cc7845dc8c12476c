// Package exporter writes the prepared movie dataset and its derived views
// to disk.
//
// CSVWriter handles delimited output with an optional UTF-8 BOM so
// spreadsheet applications detect the encoding. WriteWorkbook puts every
// view on its own sheet of an XLSX file. Exporter ties both together:
//
//	exp := exporter.New(logger, tracer, metrics)
//	files, err := exp.Export(ctx, ds, exporter.Options{
//	    Dir:     "export",
//	    Formats: []string{"csv", "xlsx"},
//	    TopN:    10,
//	})
package exporter
