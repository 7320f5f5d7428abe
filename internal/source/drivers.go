package source

import (
	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)
