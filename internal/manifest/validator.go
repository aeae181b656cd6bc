package manifest

import (
	"embed"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/rotisserie/eris"
)

//go:embed schema.cue
var schemaFS embed.FS

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaCtx  *cue.Context
	schemaErr  error
)

func loadSchema() (cue.Value, *cue.Context, error) {
	schemaOnce.Do(func() {
		schemaBytes, err := schemaFS.ReadFile("schema.cue")
		if err != nil {
			schemaErr = eris.Wrap(err, "loading embedded manifest schema")
			return
		}
		schemaCtx = cuecontext.New()
		schemaVal = schemaCtx.CompileBytes(schemaBytes)
		if schemaVal.Err() != nil {
			schemaErr = eris.Wrap(schemaVal.Err(), "compiling manifest schema")
		}
	})
	return schemaVal, schemaCtx, schemaErr
}

// validateDocument checks the decoded manifest document against the
// embedded CUE schema. A shape mismatch is reported before decoding so
// the diagnostic names the offending field instead of surfacing later
// as a half-configured target.
func validateDocument(doc map[string]interface{}) error {
	schema, ctx, err := loadSchema()
	if err != nil {
		return err
	}

	dataValue := ctx.Encode(doc)
	if dataValue.Err() != nil {
		return eris.Wrap(dataValue.Err(), "encoding manifest for validation")
	}

	def := schema.LookupPath(cue.ParsePath("#Manifest"))
	if def.Err() != nil {
		return eris.Wrap(def.Err(), "looking up #Manifest definition")
	}

	unified := def.Unify(dataValue)
	if err := unified.Validate(); err != nil {
		return eris.Wrap(err, "schema validation failed")
	}
	return nil
}
