package domain

type ParseResult struct {
	Path  string
	Table *Table // filled in case of a success
	Err   error  // filled in case of an error
}

type TransformResult struct {
	Path     string
	Table    *Table
	Warnings int
	Err      error
}
