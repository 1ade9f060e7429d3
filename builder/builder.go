// Package builder renders the statements the engine executes. Every function
// is a pure function of entity metadata; parameters are bound by name
// (:column) and left to the connection.
package builder

import (
	"strings"

	"github.com/relgraph/relgraph/schema"
)

// Writer the subset of strings.Builder used while rendering
type Writer interface {
	WriteByte(byte) error
	WriteString(string) (int, error)
}

// WriteQuoted write a backtick quoted identifier
func WriteQuoted(w Writer, name string) {
	w.WriteByte('`')
	w.WriteString(name)
	w.WriteByte('`')
}

// Columns non-key scalar columns in field order
func Columns(meta *schema.Entity) []string {
	fields := meta.ValueFields()
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, field.Column)
	}
	return columns
}

// CreateTable CREATE TABLE IF NOT EXISTS `t`(`id` BIGINT ..., ...)
func CreateTable(meta *schema.Entity) string {
	var sql strings.Builder
	sql.WriteString("CREATE TABLE IF NOT EXISTS ")
	WriteQuoted(&sql, meta.Table)
	sql.WriteByte('(')
	for idx, field := range meta.Columns() {
		if idx > 0 {
			sql.WriteString(", ")
		}
		sql.WriteString(field.ColumnDef())
	}
	sql.WriteByte(')')
	return sql.String()
}

// DropTable DROP TABLE IF EXISTS `t`
func DropTable(meta *schema.Entity) string {
	var sql strings.Builder
	sql.WriteString("DROP TABLE IF EXISTS ")
	WriteQuoted(&sql, meta.Table)
	return sql.String()
}

// Insert INSERT INTO `t`(`a`, `b`) VALUES (:a, :b). An entity without
// scalar columns inserts a NULL key so the store assigns one; both sqlite
// and mysql accept that form.
func Insert(meta *schema.Entity) string {
	columns := Columns(meta)

	var sql strings.Builder
	sql.WriteString("INSERT INTO ")
	WriteQuoted(&sql, meta.Table)
	sql.WriteByte('(')
	if len(columns) == 0 {
		WriteQuoted(&sql, meta.KeyField.Column)
		sql.WriteString(") VALUES (NULL)")
		return sql.String()
	}
	for idx, column := range columns {
		if idx > 0 {
			sql.WriteString(", ")
		}
		WriteQuoted(&sql, column)
	}
	sql.WriteString(") VALUES (")
	for idx, column := range columns {
		if idx > 0 {
			sql.WriteString(", ")
		}
		writeParam(&sql, column)
	}
	sql.WriteByte(')')
	return sql.String()
}

// Update UPDATE `t` SET `a` = :a, `b` = :b WHERE `id` = :id, empty when
// the entity has no scalar columns to write
func Update(meta *schema.Entity) string {
	columns := Columns(meta)
	if len(columns) == 0 {
		return ""
	}

	var sql strings.Builder
	sql.WriteString("UPDATE ")
	WriteQuoted(&sql, meta.Table)
	sql.WriteString(" SET ")
	for idx, column := range columns {
		if idx > 0 {
			sql.WriteString(", ")
		}
		writeAssignment(&sql, column)
	}
	writeWhereKey(&sql, meta)
	return sql.String()
}

// Get SELECT `id`, `a`, `b` FROM `t` WHERE `id` = :id
func Get(meta *schema.Entity) string {
	var sql strings.Builder
	sql.WriteString("SELECT ")
	for idx, field := range meta.Columns() {
		if idx > 0 {
			sql.WriteString(", ")
		}
		WriteQuoted(&sql, field.Column)
	}
	sql.WriteString(" FROM ")
	WriteQuoted(&sql, meta.Table)
	writeWhereKey(&sql, meta)
	return sql.String()
}

// Delete DELETE FROM `t` WHERE `id` = :id
func Delete(meta *schema.Entity) string {
	var sql strings.Builder
	sql.WriteString("DELETE FROM ")
	WriteQuoted(&sql, meta.Table)
	writeWhereKey(&sql, meta)
	return sql.String()
}

func writeParam(w Writer, column string) {
	w.WriteByte(':')
	w.WriteString(column)
}

func writeAssignment(w Writer, column string) {
	WriteQuoted(w, column)
	w.WriteString(" = ")
	writeParam(w, column)
}

func writeWhereKey(w Writer, meta *schema.Entity) {
	w.WriteString(" WHERE ")
	writeAssignment(w, meta.KeyField.Column)
}
