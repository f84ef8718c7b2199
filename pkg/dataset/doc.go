// Package dataset loads the country/population table a chart is drawn from.
//
// # Input Format
//
// A dataset is a CSV file with a header row that names at least a Country
// and a Population column. Header matching ignores case and surrounding
// whitespace, so column order is free and extra columns are ignored:
//
//	Country,Population
//	China,1433784
//	India,1366418
//
// Population values are given in thousands and multiplied by
// [DefaultMultiplier] on load, so the rows above become 1 433 784 000 and
// 1 366 418 000 people.
//
// # Validation
//
// [Parse] rejects rows that the scales cannot draw: empty or control-character
// country names, non-numeric or negative populations (INVALID_CSV), and a
// country that appears twice (DUPLICATE_KEY). A band scale would silently
// merge duplicates into one bar, so they are refused at ingestion instead.
//
// # Sources
//
// [Load] reads a local path ("-" for stdin). [Fetcher] downloads an http(s)
// URL with retries and keeps the raw body in an on-disk cache.
package dataset
