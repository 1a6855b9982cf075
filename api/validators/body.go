package validators

import (
	"encoding/json"
	"io"
	"net/http"

	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
)

// DecodeJSONBody decodes the request body into dest. Schema validation is
// the domain packages' job; this only guards against malformed JSON.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]string{"body": "גוף הבקשה אינו תקין"})
	}
	return nil
}
