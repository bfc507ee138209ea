package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var (
	ErrPositionalMismatch = errors.New("positional argument count does not match placeholders")

	paramFinder = regexp.MustCompile(`'(?:[^']|'')*'|:\w+|\?`)
	spaceFinder = regexp.MustCompile(`(?m)\s^\s+`)
)

// Prepare rewrites the named (:name) and positional (?) placeholders of a
// statement into the executor syntax and returns the arguments in the order
// they appear. Named placeholders without a binding are left untouched so the
// executor reports them. Positional placeholders are only rewritten when
// positional arguments were supplied. Single quoted literals are copied as is.
func Prepare(
	statement string,
	parameters map[string]any,
	positional []any,
	numberedParams bool,
) (string, []any, error) {
	statement = strings.TrimSpace(spaceFinder.ReplaceAllString(statement, " "))

	lookup := make(map[string]any, len(parameters))
	for key, value := range parameters {
		lookup[strings.TrimPrefix(key, ":")] = value
	}

	args := []any{}
	counter := 0
	paramBuilder := func() string {
		counter++
		if !numberedParams {
			return "?"
		}

		return fmt.Sprintf("$%d", counter)
	}

	positionalUsed := 0
	sb := strings.Builder{}
	last := 0
	for _, match := range paramFinder.FindAllStringIndex(statement, -1) {
		start, end := match[0], match[1]
		token := statement[start:end]

		sb.WriteString(statement[last:start])
		last = end

		if token[0] == '\'' {
			sb.WriteString(token)
			continue
		}

		if token == "?" {
			if len(positional) == 0 {
				sb.WriteString(token)
				continue
			}

			if positionalUsed >= len(positional) {
				return "", nil, fmt.Errorf("%w: %d arguments", ErrPositionalMismatch, len(positional))
			}

			args = append(args, positional[positionalUsed])
			positionalUsed++
			sb.WriteString(paramBuilder())
			continue
		}

		// postgres casts (value::type)
		if start > 0 && statement[start-1] == ':' {
			sb.WriteString(token)
			continue
		}

		parameterValue, found := lookup[token[1:]]
		if !found {
			sb.WriteString(token)
			continue
		}

		if expandable(parameterValue) {
			localArgs := []string{}

			valueOf := reflect.ValueOf(parameterValue)
			for i := range valueOf.Len() {
				localArgs = append(localArgs, paramBuilder())
				args = append(args, valueOf.Index(i).Interface())
			}

			sb.WriteString(strings.Join(localArgs, ", "))
			continue
		}

		args = append(args, parameterValue)
		sb.WriteString(paramBuilder())
	}
	sb.WriteString(statement[last:])

	if len(positional) > 0 && positionalUsed != len(positional) {
		return "", nil, fmt.Errorf("%w: %d arguments, %d placeholders", ErrPositionalMismatch, len(positional), positionalUsed)
	}

	return sb.String(), args, nil
}

// Slices bound to a single placeholder expand into a list (IN clauses).
// Byte slices are values, not lists.
func expandable(value any) bool {
	if value == nil {
		return false
	}

	rt := reflect.TypeOf(value)
	if rt.Kind() != reflect.Array && rt.Kind() != reflect.Slice {
		return false
	}

	return rt.Elem().Kind() != reflect.Uint8
}
