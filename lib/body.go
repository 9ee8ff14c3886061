package lib

import (
	"encoding/json"
	"net/http"
)

// ExtractAndValidateBody decodes a JSON request body into T. Checkout bodies
// carry lenient fields (see structs.FlexibleBool), so decoding stays strict
// only about JSON shape, not field values.
func ExtractAndValidateBody[T any](r *http.Request) (*T, error) {
	var body T
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()
	return &body, nil
}
