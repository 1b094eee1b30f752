package pipeline

import (
	"regexp"
	"time"

	"go-sync-ingest/internal/model"
)

// DateFormat is the fixed date-time layout sync records carry.
const DateFormat = time.RFC3339

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateBatch inspects every record in the batch and reports the
// structural defects it finds. It is a pure function: no side effects, and
// identical input always yields the same ordered error list (field-check
// order within a record, record order across the batch). An empty batch is
// valid.
func ValidateBatch(batch []model.RawRecord) model.ValidationResult {
	var errs []model.ValidationError
	for i, rec := range batch {
		errs = append(errs, validateRecord(rec, i)...)
	}
	return model.ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// validateRecord applies the per-record checks in fixed order: shape, id,
// origin address, date, nested email.
func validateRecord(rec model.RawRecord, index int) []model.ValidationError {
	fields, ok := rec.AsMap()
	if !ok {
		return []model.ValidationError{model.NewInvalidFormat(index)}
	}

	var errs []model.ValidationError

	if fields["id"].IsAbsent() {
		errs = append(errs, model.NewMissingField("id", index))
	}

	// The origin address arrives under either key depending on the provider.
	from := fields["from_address"]
	if from.IsAbsent() {
		from = fields["from"]
	}
	if from.IsAbsent() {
		errs = append(errs, model.NewMissingField("from_address/from", index))
	}

	if date := fields["date"]; !date.IsAbsent() {
		raw, isString := date.AsString()
		if !isString {
			errs = append(errs, model.NewInvalidDate(date.Raw(), index))
		} else if _, err := time.Parse(DateFormat, raw); err != nil {
			errs = append(errs, model.NewInvalidDate(raw, index))
		}
	}

	// Only a nested origin-address mapping carries an email field to check;
	// a plain string origin is accepted as-is.
	if email := from.Get("email"); !email.IsAbsent() {
		raw, isString := email.AsString()
		if !isString || !emailPattern.MatchString(raw) {
			errs = append(errs, model.NewInvalidEmail(email.Raw(), index))
		}
	}

	return errs
}
