package testingutil

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

// AssertEquals asserts
func AssertEquals(t *testing.T, expected interface{}, value interface{}, valueName string) bool {
	if value == expected {
		return true
	}
	t.Fatalf("validate values %s:%+v not equals expected:%+v", valueName, value, expected)
	return false
}

// AssertNotEquals asserts
func AssertNotEquals(t *testing.T, expected interface{}, value interface{}, valueName string) bool {
	if value != expected {
		return true
	}
	t.Fatalf("validate values %s:%+v equals not expected:%+v", valueName, value, expected)
	return false
}

// AssertBytesEquals asserts
func AssertBytesEquals(t *testing.T, expected []byte, value []byte, valueName string) bool {
	if bytes.Equal(expected, value) {
		return true
	}
	t.Fatalf("validate values %s:%v not equals expected:%v", valueName, value, expected)
	return false
}

// AssertStringContains asserts
func AssertStringContains(t *testing.T, content string, mark string, valueName string) bool {
	if strings.Contains(content, mark) {
		return true
	}
	t.Fatalf("validate %s:%s does not contain mark:%s", valueName, content, mark)
	return false
}

// AssertTrue asserts
func AssertTrue(t *testing.T, val bool, valueName string) bool {
	if val {
		return true
	}
	t.Fatalf("validate %s not true", valueName)
	return false
}

// AssertFalse asserts
func AssertFalse(t *testing.T, val bool, valueName string) bool {
	if false == val {
		return true
	}
	t.Fatalf("validate %s not false", valueName)
	return false
}

// AssertNil asserts, a typed nil pointer counts as nil
func AssertNil(t *testing.T, val interface{}, valueName string) bool {
	if isNilValue(val) {
		return true
	}
	t.Fatalf("validate %s not nil: %+v", valueName, val)
	return false
}

// AssertNotNil asserts
func AssertNotNil(t *testing.T, val interface{}, valueName string) bool {
	if false == isNilValue(val) {
		return true
	}
	t.Fatalf("validate %s is nil", valueName)
	return false
}

func isNilValue(val interface{}) bool {
	if nil == val {
		return true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
