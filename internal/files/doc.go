// Package files finds movie dataset files on disk.
//
// When the input path names a directory, Discovery picks the most recently
// modified CSV, TSV, TXT, XLSX or XLSM file in it. Office lock files
// ("~$name.xlsx") and hidden files are ignored.
//
//	d := files.NewDiscovery(baseDir)
//	latest, ok, err := d.Latest("downloads")
package files
