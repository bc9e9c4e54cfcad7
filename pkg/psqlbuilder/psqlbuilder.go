package psqlbuilder

import "github.com/Masterminds/squirrel"

// builder is a squirrel statement builder pinned to postgres $N placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a SELECT with postgres placeholders.
func Select(columns ...string) squirrel.SelectBuilder {
	return builder.Select(columns...)
}

// Insert starts an INSERT with postgres placeholders.
func Insert(into string) squirrel.InsertBuilder {
	return builder.Insert(into)
}

// Update starts an UPDATE with postgres placeholders.
func Update(table string) squirrel.UpdateBuilder {
	return builder.Update(table)
}

// Delete starts a DELETE with postgres placeholders.
func Delete(from string) squirrel.DeleteBuilder {
	return builder.Delete(from)
}
