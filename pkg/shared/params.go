package shared

import (
	"net/http"
	"strconv"

	"github.com/go-playground/form"
	"github.com/gorilla/mux"
)

// Decoder decodes url.Values (query strings, form posts) into tagged structs.
var Decoder = form.NewDecoder()

// ParseID extracts the numeric {id} path variable.
func ParseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ParseQueryID extracts a numeric query parameter.
func ParseQueryID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
