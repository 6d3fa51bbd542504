// Package rules validates wizard form values. Synchronous rules run first; asynchronous
// rules run concurrently, and only for fields whose synchronous rules passed.
package rules

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"insured-registration/internal/common/logger"
	"insured-registration/internal/common/metrics"
	"insured-registration/internal/form"
)

// Code identifies why a field failed validation.
type Code string

const (
	CodeRequired         Code = "REQUIRED"
	CodeInvalidType      Code = "INVALID_TYPE"
	CodeBlank            Code = "BLANK"
	CodeMinLength        Code = "MIN_LENGTH"
	CodeMaxLength        Code = "MAX_LENGTH"
	CodePattern          Code = "PATTERN"
	CodeNotNumeric       Code = "NOT_NUMERIC"
	CodeAgeOutOfRange    Code = "AGE_OUT_OF_RANGE"
	CodeInvalidEmail     Code = "INVALID_EMAIL"
	CodeInvalidPhone     Code = "INVALID_PHONE"
	CodeUsernameTaken    Code = "USERNAME_TAKEN"
	CodePasswordTooWeak  Code = "PASSWORD_TOO_WEAK"
	CodeCheckUnavailable Code = "CHECK_UNAVAILABLE"
)

type Violation struct {
	Field   form.FieldID `json:"field"`
	Code    Code         `json:"code"`
	Message string       `json:"message"`
}

// Rule checks a value synchronously and returns nil when it passes.
type Rule func(value any) *Violation

// AsyncRule checks a value against a collaborator. A returned error means the check
// could not be performed.
type AsyncRule func(ctx context.Context, value any) (*Violation, error)

// FieldRules groups the rules of one field.
type FieldRules struct {
	Field form.FieldID
	Sync  []Rule
	Async []AsyncRule
}

// Result lists violations in field declaration order.
type Result struct {
	Violations []Violation `json:"violations"`
}

func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// For returns the violations of field.
func (r Result) For(field form.FieldID) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Field == field {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether field failed with code.
func (r Result) Has(field form.FieldID, code Code) bool {
	for _, v := range r.For(field) {
		if v.Code == code {
			return true
		}
	}
	return false
}

// Fields returns the distinct invalid fields.
func (r Result) Fields() []string {
	seen := make(map[form.FieldID]bool)
	var out []string
	for _, v := range r.Violations {
		if !seen[v.Field] {
			seen[v.Field] = true
			out = append(out, string(v.Field))
		}
	}
	return out
}

func (r Result) String() string {
	parts := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		parts = append(parts, string(v.Field)+": "+v.Message)
	}
	return strings.Join(parts, "; ")
}

// Set is the rule set of one form.
type Set struct {
	fields      []FieldRules
	concurrency int
	logger      logger.Logger
}

// NewSet creates a rule set. concurrency bounds the async checks in flight; zero means unbounded.
func NewSet(log logger.Logger, concurrency int, fields ...FieldRules) *Set {
	return &Set{
		fields:      fields,
		concurrency: concurrency,
		logger:      log.WithFields(map[string]interface{}{"component": "rules"}),
	}
}

// Validate never fails: collaborator errors become CHECK_UNAVAILABLE violations.
func (s *Set) Validate(ctx context.Context, values form.Values) Result {
	perField := make([][]Violation, len(s.fields))

	for i, fr := range s.fields {
		value := values[fr.Field]
		for _, rule := range fr.Sync {
			if v := rule(value); v != nil {
				v.Field = fr.Field
				perField[i] = append(perField[i], *v)
			}
		}
	}

	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, fr := range s.fields {
		if len(perField[i]) > 0 || len(fr.Async) == 0 {
			continue
		}
		i, fr := i, fr
		value := values[fr.Field]
		g.Go(func() error {
			perField[i] = s.runAsync(ctx, fr, value)
			return nil
		})
	}
	_ = g.Wait()

	var result Result
	for _, vs := range perField {
		for _, v := range vs {
			metrics.ValidationFailures.WithLabelValues(string(v.Field), string(v.Code)).Inc()
			result.Violations = append(result.Violations, v)
		}
	}
	return result
}

func (s *Set) runAsync(ctx context.Context, fr FieldRules, value any) []Violation {
	var out []Violation
	for _, rule := range fr.Async {
		v, err := rule(ctx, value)
		if err != nil {
			s.logger.Warn("Async check unavailable", map[string]interface{}{
				"field": string(fr.Field),
				"error": err.Error(),
			})
			out = append(out, Violation{
				Field:   fr.Field,
				Code:    CodeCheckUnavailable,
				Message: "could not be verified, try again",
			})
			continue
		}
		if v != nil {
			v.Field = fr.Field
			out = append(out, *v)
		}
	}
	return out
}
