package generate

import "github.com/maciejwalesiak/easyfix/internal/schema"

type OutputFile struct {
	Path    string
	Content []byte
}

type Options struct {
	// Package is the package name of the generated code.
	Package string
	// Out is the output directory.
	Out string
}

// Generator turns one compiled schema into output files. Emission
// targets register behind this interface; gofix is the only one today.
type Generator interface {
	Name() string
	Generate(s *schema.Schema, options Options) ([]OutputFile, error)
}
