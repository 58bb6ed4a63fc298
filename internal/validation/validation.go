// Package validation rejects malformed habits and entries before they reach
// storage or the stats package.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/brk3/consistent/pkg/habit"
)

var (
	errRequired       = errors.New("is required")
	errInvalidDate    = errors.New("must be a date in YYYY-MM-DD format")
	errTooLong        = errors.New("is too long")
	errInvalidPeriod  = errors.New("must be one of day, week, month")
	errTargetPairing  = errors.New("target_count and target_period must be set together")
	errMustBePositive = errors.New("must be a positive number")
)

var customErrors = map[string]error{
	"Habit.Name.required":       errRequired,
	"Habit.Name.min":            errRequired,
	"Habit.Name.max":            errTooLong,
	"Habit.TargetCount.gte":     errMustBePositive,
	"Habit.TargetPeriod.oneof":  errInvalidPeriod,
	"Habit.TargetCount.target":  errTargetPairing,
	"Habit.TargetPeriod.target": errTargetPairing,
	"Entry.Date.required":       errRequired,
	"Entry.Date.calday":         errInvalidDate,
	"Entry.Note.max":            errTooLong,
}

// CalendarDay validates a YYYY-MM-DD string that names a real calendar day.
var CalendarDay = func(fl validator.FieldLevel) bool {
	return IsCalendarDay(fl.Field().String())
}

func IsCalendarDay(s string) bool {
	if len(s) != len(habit.DateLayout) {
		return false
	}
	_, err := time.Parse(habit.DateLayout, s)
	return err == nil
}

func habitTarget(sl validator.StructLevel) {
	h := sl.Current().Interface().(habit.Habit)
	if (h.TargetCount > 0) != (h.TargetPeriod != "") {
		sl.ReportError(h.TargetCount, "target_count", "TargetCount", "target", "")
		sl.ReportError(h.TargetPeriod, "target_period", "TargetPeriod", "target", "")
	}
}

// jsonName reports fields by their wire name so error bodies match the API.
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Validator wraps a validator.Validate with the habit specific rules registered.
type Validator struct {
	v *validator.Validate
}

func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("calday", CalendarDay); err != nil {
		return nil, fmt.Errorf("register calday: %w", err)
	}
	v.RegisterStructValidation(habitTarget, habit.Habit{})
	return &Validator{v: v}, nil
}

func (v *Validator) Habit(h habit.Habit) error {
	return v.v.Struct(h)
}

func (v *Validator) Entry(e habit.Entry) error {
	return v.v.Struct(e)
}

// FieldErrors converts validation failures into a list of {field: message}
// pairs suitable for a JSON error body. Other errors yield a single "error" pair.
func FieldErrors(err error) []map[string]string {
	out := make([]map[string]string, 0)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(out, map[string]string{"error": err.Error()})
	}
	for _, e := range verrs {
		key := e.StructNamespace() + "." + e.Tag()
		msg := fmt.Sprintf("%s is invalid", e.Field())
		if v, ok := customErrors[key]; ok {
			msg = v.Error()
		}
		out = append(out, map[string]string{e.Field(): msg})
	}
	return out
}
