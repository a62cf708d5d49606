package domain

// Row is one CSV record. Column order is carried by the table header, not by
// the map itself.
type Row map[string]string

// Table is a single decoded CSV file. The header defines column order and
// every row shares the header's field set.
type Table struct {
	Header []string
	Rows   []Row
}
