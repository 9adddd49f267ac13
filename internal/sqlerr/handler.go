package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/monitoria-backend/internal/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// entityNames maps tables and foreign key columns onto the names clients see.
// usuarios rows only ever surface here as monitors.
var entityNames = map[string]string{
	"monitorias":    "Monitoria",
	"disciplinas":   "Disciplina",
	"usuarios":      "Monitor",
	"disciplina_id": "Disciplina",
	"monitor_id":    "Monitor",
}

var uniqueKeySuffix = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

// NoRowsError is a missing-row error tagged with the table it was read from.
type NoRowsError struct {
	Table string
	err   error
}

func (e *NoRowsError) Error() string {
	return fmt.Sprintf("%s: %v", e.Table, e.err)
}

func (e *NoRowsError) Unwrap() error {
	return e.err
}

// WrapNoRows tags a no-rows error with its table so HandleError can name the
// missing entity. Other errors pass through untouched.
func WrapNoRows(table string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return &NoRowsError{Table: table, err: err}
	}
	return err
}

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var pgerr *Error
	if errors.As(err, &pgerr) {
		return pgerr.Code
	}
	return Other
}

// ConvertPgError normalizes a raw pgconn error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// HandleError converts err into an *errs.HTTPError.
//
//   - *errs.HTTPError: returned unchanged
//   - unique violation: 409, e.g. a second active monitoria for one monitor
//     and discipline
//   - foreign key, not null, check, bad text representation: 400
//   - pgx.ErrNoRows / sql.ErrNoRows: 404, named after the table when the
//     error went through WrapNoRows
//   - anything else: 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return fromPgError(ConvertPgError(pgerr))
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		var noRows *NoRowsError
		if errors.As(err, &noRows) {
			return errs.NewNotFoundError(entityName(noRows.Table)+" not found", true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}

func fromPgError(sqlErr *Error) error {
	entity := entityName(sqlErr.TableName)
	code := errorCode(entity, sqlErr.Code)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		referenced := entityName(sqlErr.ColumnName)
		if sqlErr.ColumnName == "" {
			referenced = "record"
		}
		msg := fmt.Sprintf("The referenced %s does not exist", referenced)
		return errs.NewBadRequestError(msg, false, &code, nil, nil)

	case UniqueViolation:
		what := "identifier"
		if column := extractColumnForUniqueViolation(sqlErr.ConstraintName); column != "" {
			what = humanize(column)
		}
		msg := fmt.Sprintf("A %s with this %s already exists", entity, what)
		return errs.NewConflictError(msg, true, &code)

	case NotNullViolation:
		field := humanize(sqlErr.ColumnName)
		if field == "" {
			field = "field"
		}
		fieldErrors := []errs.FieldError{{
			Field: strings.ToLower(sqlErr.ColumnName),
			Error: "is required",
		}}
		return errs.NewBadRequestError(fmt.Sprintf("The %s is required", field), true, &code, fieldErrors, nil)

	case CheckViolation:
		msg := "One or more values do not meet required conditions"
		if field := humanize(sqlErr.ColumnName); field != "" {
			msg = fmt.Sprintf("The %s value does not meet required conditions", field)
		}
		return errs.NewBadRequestError(msg, true, &code, nil, nil)

	case InvalidTextRep:
		return errs.NewBadRequestError("One or more values have an invalid format", true, &code, nil, nil)

	default:
		return errs.NewInternalServerError()
	}
}

// errorCode builds machine codes such as MONITORIA_ALREADY_EXISTS.
func errorCode(entity string, errType Code) string {
	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidTextRep:
		action = "INVALID"
	}
	return strings.ToUpper(strings.ReplaceAll(entity, " ", "_")) + "_" + action
}

// entityName resolves a table or *_id column to a display name. Unknown
// tables fall back to their humanized singular form.
func entityName(name string) string {
	if name == "" {
		return "Record"
	}
	if entity, ok := entityNames[strings.ToLower(name)]; ok {
		return entity
	}
	name = strings.TrimSuffix(strings.ToLower(name), "_id")
	if len(name) > 1 {
		name = strings.TrimSuffix(name, "s")
	}
	return humanize(name)
}

func humanize(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation recovers the column from constraint names
// shaped like unique_<table>_<column> or <table>_<column>_key.
func extractColumnForUniqueViolation(constraintName string) string {
	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueKeySuffix.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}
