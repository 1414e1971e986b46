package model

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/option"
)

// Option formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// LoadOption decodes a chart option document in the given format. The
// document root must be an object.
func LoadOption(doc []byte, format string) (*option.Map, error) {
	var (
		v   any
		err error
	)
	switch format {
	case FormatJSON:
		v, err = option.ParseJSON(doc)
	case FormatTOML:
		v, err = option.ParseTOML(doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported option format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOption, err, "decode %s option", format)
	}
	m, ok := v.(*option.Map)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidOption, "option root must be an object")
	}
	return m, nil
}

// FormatFromPath guesses the document format from a file extension,
// defaulting to JSON.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatJSON
}

// LoadOptionFile reads and decodes a chart option file.
func LoadOptionFile(path string) (*option.Map, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read option file")
	}
	return LoadOption(doc, FormatFromPath(path))
}
