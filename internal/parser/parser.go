package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/go-json-experiment/json/jsontext"
	"github.com/mcncl/jsonflat/internal/errors" // Custom errors package
	"github.com/mcncl/jsonflat/jsonvalue"
)

// Parse reads a single JSON document from an io.Reader
func Parse(reader io.Reader) (jsonvalue.Value, error) {
	root, err := jsonvalue.Parse(reader)
	if err != nil {
		return jsonvalue.Value{}, toAppError(err)
	}
	return root, nil
}

// toAppError translates a jsonvalue parse failure into a parsing AppError.
// The original error stays reachable through errors.As.
func toAppError(err error) error {
	var parseErr *jsonvalue.ParseError
	if !stderrors.As(err, &parseErr) {
		return errors.NewParsingError("failed to decode JSON", err)
	}

	var syntaxError *jsontext.SyntacticError
	switch {
	case stderrors.Is(err, jsonvalue.ErrEmptyInput):
		return errors.NewParsingError("input is empty or contains only whitespace", &wrapped{errors.ErrEmptyInput, parseErr})
	case stderrors.Is(err, jsonvalue.ErrMultipleValues):
		return errors.NewParsingError("multiple JSON values found at the root", &wrapped{errors.ErrMultipleJSON, parseErr})
	case stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.NewParsingError(
			fmt.Sprintf("unexpected end of input at offset %d", parseErr.Offset),
			&wrapped{errors.ErrInvalidJSON, parseErr},
		)
	case stderrors.As(err, &syntaxError):
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %v", syntaxError.ByteOffset, syntaxError),
			&wrapped{errors.ErrInvalidJSON, parseErr},
		)
	default:
		return errors.NewParsingError(
			fmt.Sprintf("invalid JSON at offset %d: %v", parseErr.Offset, parseErr.Err),
			&wrapped{errors.ErrInvalidJSON, parseErr},
		)
	}
}

// wrapped pairs an application sentinel with the underlying parse error so
// both errors.Is(err, sentinel) and errors.As(err, **jsonvalue.ParseError)
// succeed.
type wrapped struct {
	sentinel error
	cause    *jsonvalue.ParseError
}

func (w *wrapped) Error() string {
	return fmt.Sprintf("%v: %v", w.sentinel, w.cause)
}

func (w *wrapped) Unwrap() []error {
	return []error{w.sentinel, w.cause}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (jsonvalue.Value, error) {
	// An empty reader gives io.EOF, but whitespace-only input deserves the
	// same input error.
	if strings.TrimSpace(jsonString) == "" {
		return jsonvalue.Value{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (jsonvalue.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return jsonvalue.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return jsonvalue.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return jsonvalue.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return jsonvalue.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return jsonvalue.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}
