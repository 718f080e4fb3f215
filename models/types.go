package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// StringList is an ordered list of strings stored as a JSON array.
//
// Rows written before lists existed hold either a bare URL or a JSON array
// encoded inside a JSON string; Scan normalizes both.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.New("type assertion to []byte or string failed")
	}
	list, err := ParseStringList(raw)
	if err != nil {
		return err
	}
	*l = list
	return nil
}

// ParseStringList decodes the current and legacy encodings.
func ParseStringList(raw string) (StringList, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return StringList{}, nil
	}
	switch raw[0] {
	case '[':
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, err
		}
		return compact(list), nil
	case '"':
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err != nil {
			return nil, err
		}
		return ParseStringList(inner)
	}
	return StringList{raw}, nil
}

func compact(list []string) StringList {
	out := make(StringList, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
