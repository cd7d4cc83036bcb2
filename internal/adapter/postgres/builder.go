package postgres

import sq "github.com/Masterminds/squirrel"

// Builder is the shared squirrel statement builder with PostgreSQL
// placeholders. Repositories start every query from it.
var Builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
