package core

// mutations.go implements single-record create, update and delete. Input
// is validated before the store is called, so a rejected request never
// opens a transaction.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Input is a decoded JSON object describing one record. Decode with
// json.Decoder.UseNumber so prices keep their exact digits.
type Input map[string]any

// ParseInput converts an Input into a Record. Keys are matched after
// trimming and lowercasing. Text fields accept strings, numbers and
// booleans. Dates accept only strings and become null when they do not
// parse. A price that is not a number or numeric string is rejected.
func ParseInput(in Input) (Record, error) {
	norm := make(map[string]any, len(in))
	for k, v := range in {
		norm[NormalizeHeader(k)] = v
	}

	var r Record
	for _, f := range Fields {
		v := norm[f.Name]

		if f.Kind == KindDate {
			s, _ := v.(string)
			_ = f.Set(&r, s)
			continue
		}

		s, ok := inputString(v)
		if !ok {
			msg := "must be a string"
			if f.Kind == KindDecimal {
				msg = "must be a number"
			}
			return Record{}, &ValidationError{Field: f.Name, Value: fmt.Sprint(v), Message: msg}
		}
		if err := f.Set(&r, s); err != nil {
			return Record{}, err
		}
	}
	return r, nil
}

// inputString renders a scalar JSON value as text. ok is false for
// objects and arrays.
func inputString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// Get returns the record with serial number key.
func (s *Service) Get(ctx context.Context, key string) (Record, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Record{}, ErrMissingKey
	}
	return s.store.Get(ctx, key)
}

// Create stores a new record, or replaces the record with the same serial
// number. It returns the serial number, or "" when the record has none.
func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	r, err := ParseInput(in)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, r); err != nil {
		return "", fmt.Errorf("create item: %w", err)
	}
	return r.Key(), nil
}

// Update replaces every column of the record with serial number key.
// A serial_no in the input must be empty or equal to key.
func (s *Service) Update(ctx context.Context, key string, in Input) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMissingKey
	}

	r, err := ParseInput(in)
	if err != nil {
		return "", err
	}
	if body := r.Key(); body != "" && body != key {
		return "", &ValidationError{Field: "serial_no", Value: body, Message: "does not match the item being updated"}
	}
	r.SerialNo = ToPgText(key)

	if err := s.store.Replace(ctx, key, r); err != nil {
		return "", fmt.Errorf("update item %q: %w", key, err)
	}
	return key, nil
}

// Delete permanently removes the record with serial number key.
func (s *Service) Delete(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrMissingKey
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete item %q: %w", key, err)
	}
	return nil
}
