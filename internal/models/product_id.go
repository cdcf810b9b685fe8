// Basketwise - Retail Checkout Analytics and Product Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketwise

package models

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ProductID is the canonical product identifier.
// The zero value is the empty id, which never names a product.
type ProductID string

// NewProductID normalizes a raw id: surrounding whitespace is trimmed and
// integer spellings are canonicalized, so "007", " 7 " and "7" are equal.
func NewProductID(raw string) ProductID {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ProductIDFromInt(n)
	}
	return ProductID(s)
}

// ProductIDFromInt returns the canonical id for an integer key.
func ProductIDFromInt(n int64) ProductID {
	return ProductID(strconv.FormatInt(n, 10))
}

// ParseProductIDs splits a comma separated list, normalizing each entry and
// skipping empty ones.
func ParseProductIDs(list string) []ProductID {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	ids := make([]ProductID, 0, len(parts))
	for _, p := range parts {
		if id := NewProductID(p); !id.IsZero() {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsZero reports whether the id is empty.
func (id ProductID) IsZero() bool {
	return id == ""
}

// Int64 returns the numeric value of the id, if it has one.
func (id ProductID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// String implements fmt.Stringer.
func (id ProductID) String() string {
	return string(id)
}

// Compare orders ids: numeric ids first by value, then the rest lexically.
// It returns -1, 0 or +1.
func (id ProductID) Compare(other ProductID) int {
	a, aNum := id.Int64()
	b, bNum := other.Int64()
	switch {
	case aNum && bNum:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(string(id), string(other))
}

// Less reports whether id sorts before other.
func (id ProductID) Less(other ProductID) bool {
	return id.Compare(other) < 0
}

// SortProductIDs sorts ids in place in ProductID order.
func SortProductIDs(ids []ProductID) {
	slices.SortFunc(ids, ProductID.Compare)
}

// MarshalJSON renders numeric ids as JSON numbers and the rest as strings.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if _, ok := id.Int64(); ok {
		return []byte(id), nil
	}
	return []byte(strconv.Quote(string(id))), nil
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid product id %s: %w", data, err)
		}
		*id = NewProductID(s)
		return nil
	}
	if _, err := strconv.ParseInt(string(data), 10, 64); err != nil {
		return fmt.Errorf("invalid product id %s: must be an integer or a string", data)
	}
	*id = NewProductID(string(data))
	return nil
}
