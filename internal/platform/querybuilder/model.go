package querybuilder

import (
	"errors"
	"reflect"
	"strings"
)

var (
	errNilModel       = errors.New("model cannot be nil")
	errNotStructModel = errors.New("model must be struct")
	errNoModelColumns = errors.New("model has no db columns")
)

// ModelColumns lists the db-tagged columns of a struct model in field order.
func ModelColumns(model any) ([]string, error) {
	fields, _, err := modelFields(model)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return cols, nil
}

// MustModelColumns is ModelColumns for package level column lists.
func MustModelColumns(model any) []string {
	cols, err := ModelColumns(model)
	if err != nil {
		panic(err)
	}
	return cols
}

// InsertModel builds an INSERT of every db-tagged field of model.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	fields, value, err := modelFields(model)
	if err != nil {
		return "", nil, err
	}

	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
		vals = append(vals, value.Field(f.index).Interface())
	}

	return InsertInto(table).
		Columns(cols...).
		Values(vals...).
		Suffix(suffix).
		ToSQL()
}

type modelField struct {
	column string
	index  int
}

func modelFields(model any) ([]modelField, reflect.Value, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil, reflect.Value{}, errNilModel
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil, reflect.Value{}, errNotStructModel
	}

	typ := value.Type()
	fields := make([]modelField, 0, typ.NumField())
	for i := range typ.NumField() {
		if column, ok := dbColumn(typ.Field(i)); ok {
			fields = append(fields, modelField{column: column, index: i})
		}
	}
	if len(fields) == 0 {
		return nil, reflect.Value{}, errNoModelColumns
	}
	return fields, value, nil
}

func dbColumn(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	name, _, _ := strings.Cut(field.Tag.Get("db"), ",")
	name = strings.TrimSpace(name)
	if name == "" || name == "-" {
		return "", false
	}
	return name, true
}
