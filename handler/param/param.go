package param

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/spf13/cast"
)

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.SetAliasTag("json")
	return d
}()

// Binding fills v from the query string, then from the json body if one is
// attached. Body values win.
func Binding(r *http.Request, v interface{}) error {
	if err := r.ParseForm(); err != nil {
		return err
	}

	if err := decoder.Decode(v, r.Form); err != nil {
		return err
	}

	if r.Body != nil && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return err
		}
	}

	return nil
}

// Int64 query parameter as int64 with a default
func Int64(r *http.Request, key string, def int64) int64 {
	if v := r.URL.Query().Get(key); v != "" {
		return cast.ToInt64(v)
	}

	return def
}

// Int query parameter as int with a default
func Int(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		return cast.ToInt(v)
	}

	return def
}
