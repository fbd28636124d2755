// Package bind decodes a JSON request body into a struct and runs
// validate.Struct on the result in one call.
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/validate"
)

// JSON decodes the request body into dest and validates it.
// dest must be a pointer to a struct with `validate` tags.
//
// The input struct is the allow-list: body keys it does not name are
// dropped silently, never echoed back and never an error.
//
// The body is capped at MAX_BODY_BYTES (default 1 MiB); booking and user
// payloads are small, anything bigger is hostile or broken.
//
// Returns *apperr.Error on malformed JSON or failed validation so callers
// can hand it straight to apperr.Write.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.ValidationField("body", "Request body too large.")
		}
		return apperr.ValidationField("body", "Invalid JSON body.")
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return apperr.Validation(errs)
	}

	return nil
}
