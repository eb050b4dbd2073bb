package tmdb

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/five82/marquee/internal/session"
)

// Params are caller query parameters. A nil value (untyped nil, nil pointer,
// nil interface) means "not set" and never reaches the wire.
type Params map[string]any

// Defaults are the parameters every request carries.
type Defaults struct {
	APIKey   string
	Language string
}

const (
	paramAPIKey    = "api_key"
	paramSessionID = "session_id"
	paramLanguage  = "language"
)

// Compose resolves path against base and builds the final query string.
// An absolute path URL bypasses base.
//
// Literal query pairs already present in path are kept. Caller params are
// merged on top but can never replace api_key or session_id. language falls
// back to defaults.Language only when neither the path nor the caller
// mentions it; an explicit nil language suppresses it entirely.
func Compose(base *url.URL, path string, params Params, sess session.Session, defaults Defaults) (*url.URL, error) {
	if base == nil {
		return nil, &ValidationError{Field: "base", Reason: "base url is nil"}
	}
	if strings.TrimSpace(path) == "" {
		return nil, &ValidationError{Field: "path", Reason: "path is empty"}
	}
	rel, err := url.Parse(path)
	if err != nil {
		return nil, &ValidationError{Field: "path", Reason: err.Error()}
	}

	values := rel.Query()
	languageSupplied := values.Has(paramLanguage)

	for key, raw := range params {
		if key == paramAPIKey || key == paramSessionID {
			continue
		}
		if key == paramLanguage {
			languageSupplied = true
		}
		value, ok, err := formatParam(key, raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			values.Del(key)
			continue
		}
		values.Set(key, value)
	}

	if sess.Active() {
		values.Set(paramSessionID, sess.ID)
	}
	if key := strings.TrimSpace(defaults.APIKey); key != "" {
		values.Set(paramAPIKey, key)
	}
	if !languageSupplied && strings.TrimSpace(defaults.Language) != "" {
		values.Set(paramLanguage, defaults.Language)
	}

	var out *url.URL
	if rel.IsAbs() {
		out = &url.URL{Scheme: rel.Scheme, User: rel.User, Host: rel.Host, Path: rel.Path}
	} else {
		out = base.JoinPath(rel.Path)
	}
	out.RawQuery = values.Encode()
	out.Fragment = ""
	return out, nil
}

// formatParam renders a primitive value. ok is false when the value is absent.
func formatParam(key string, raw any) (string, bool, error) {
	if raw == nil {
		return "", false, nil
	}
	if s, isStringer := raw.(fmt.Stringer); isStringer {
		v := reflect.ValueOf(raw)
		if v.Kind() == reflect.Pointer && v.IsNil() {
			return "", false, nil
		}
		return s.String(), true, nil
	}

	v := reflect.ValueOf(raw)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "", false, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true, nil
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32), true, nil
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), true, nil
	default:
		return "", false, &ValidationError{
			Field:  "params." + key,
			Reason: fmt.Sprintf("unsupported value of kind %s", v.Kind()),
		}
	}
}
