package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"gopkg.in/yaml.v3"
)

var _numberSeparators = regexp.MustCompile(`\b(0[xX][0-9a-fA-F_]+|[0-9][0-9_]*)\b`)

// Size is a byte count that may be written as an integer or as an
// expression such as "2 * GiB" or "0x4000_0000".
type Size uint64

// ParseSize evaluates a size expression. Plain integers in any Go base are
// taken directly; anything else is evaluated as a Starlark expression with
// KiB, MiB and GiB predeclared.
func ParseSize(expr string) (size uint64, err error) {
	text := strings.TrimSpace(expr)
	if len(text) == 0 {
		err = &ErrParseSize{Expr: expr}
		return
	}

	size, err = strconv.ParseUint(text, 0, 64)
	if err == nil {
		return
	}
	err = nil

	text = _numberSeparators.ReplaceAllStringFunc(text, func(number string) string {
		return strings.ReplaceAll(number, "_", "")
	})

	thread := starlark.Thread{Name: "size"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"KiB": starlark.MakeInt(1 << 10),
		"MiB": starlark.MakeInt(1 << 20),
		"GiB": starlark.MakeInt(1 << 30),
	}

	prog := "rc=" + text + "\n"
	dict, serr := starlark.ExecFileOptions(&opts, &thread, "size", prog, pred)
	if serr != nil {
		err = &ErrParseSize{Expr: expr, Err: serr}
		return
	}

	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = &ErrParseSize{Expr: expr}
		return
	}

	size, ok = st_int.Uint64()
	if !ok {
		err = &ErrParseSize{Expr: expr}
		return
	}

	return
}

func (size *Size) set(value any) (err error) {
	switch value := value.(type) {
	case int64:
		if value < 0 {
			return &ErrParseSize{Expr: fmt.Sprint(value)}
		}
		*size = Size(value)
	case uint64:
		*size = Size(value)
	case int:
		if value < 0 {
			return &ErrParseSize{Expr: fmt.Sprint(value)}
		}
		*size = Size(value)
	case string:
		var parsed uint64
		parsed, err = ParseSize(value)
		if err != nil {
			return
		}
		*size = Size(parsed)
	default:
		err = &ErrParseSize{Expr: fmt.Sprint(value)}
	}
	return
}

// UnmarshalTOML accepts an integer or an expression string.
func (size *Size) UnmarshalTOML(value any) error {
	return size.set(value)
}

// UnmarshalYAML accepts an integer or an expression string.
func (size *Size) UnmarshalYAML(node *yaml.Node) (err error) {
	if node.Kind != yaml.ScalarNode {
		return &ErrParseSize{Expr: node.Value}
	}
	return size.set(node.Value)
}

// UnmarshalText accepts an expression, as used by command line flags.
func (size *Size) UnmarshalText(text []byte) error {
	return size.set(string(text))
}

// Set implements flag.Value.
func (size *Size) Set(text string) error {
	return size.set(text)
}

func (size Size) String() string {
	return fmt.Sprintf("%#x", uint64(size))
}
