// Package schema checks domain documents against an embedded CUE
// definition before they are decoded.
//
// The check is structural only: required fields, field types, score
// bounds, unknown keys. Cross-record rules (unique ids, references) belong
// to package integrity and run when the loader applies the document.
package schema

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed domain.cue
var domainCUE string

// Error is one schema violation with its source position.
type Error struct {
	Path    string // dotted path into the document, e.g. "relationships.2.strength"
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "document"
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), loc, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// Errors is the full list of violations found in one document.
type Errors []*Error

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no schema errors"
	case 1:
		return es[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", es[0].Error(), len(es)-1)
}

// Check validates a document. The format is chosen by the filename
// extension: .json, .yaml/.yml, or .cue. It returns nil when the document
// conforms, otherwise an Errors value listing every violation.
func Check(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(domainCUE, cue.Filename("domain.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile embedded schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Domain"))

	doc, err := build(ctx, filename, data)
	if err != nil {
		return convert(err, filename)
	}
	if err := doc.Err(); err != nil {
		return convert(err, filename)
	}

	v := def.Unify(doc)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return convert(err, filename)
	}
	return nil
}

func build(ctx *cue.Context, filename string, data []byte) (cue.Value, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		expr, err := cuejson.Extract(filename, data)
		if err != nil {
			return cue.Value{}, err
		}
		return ctx.BuildExpr(expr), nil
	case ".yaml", ".yml":
		f, err := cueyaml.Extract(filename, data)
		if err != nil {
			return cue.Value{}, err
		}
		return ctx.BuildFile(f), nil
	case ".cue":
		return ctx.CompileBytes(data, cue.Filename(filename)), nil
	}
	return cue.Value{}, &Error{
		Message: fmt.Sprintf("unsupported document extension %q (want .json, .yaml, .yml, or .cue)", filepath.Ext(filename)),
	}
}

// convert flattens a CUE error list into Errors, preferring positions that
// point into the document over positions inside the embedded schema.
func convert(err error, filename string) error {
	if se, ok := err.(*Error); ok {
		return Errors{se}
	}

	list := errors.Errors(err)
	if len(list) == 0 {
		return Errors{{Message: err.Error()}}
	}

	out := make(Errors, 0, len(list))
	for _, e := range list {
		format, args := e.Msg()
		out = append(out, &Error{
			Path:    documentPath(e.Path()),
			Message: fmt.Sprintf(format, args...),
			Pos:     documentPos(errors.Positions(e), filename),
		})
	}
	return out
}

// documentPath drops the definition selector the document was unified into.
func documentPath(path []string) string {
	if len(path) > 0 && path[0] == "#Domain" {
		path = path[1:]
	}
	return strings.Join(path, ".")
}

func documentPos(positions []token.Pos, filename string) token.Pos {
	for _, p := range positions {
		if p.Filename() == filename {
			return p
		}
	}
	if len(positions) > 0 {
		return positions[0]
	}
	return token.NoPos
}
