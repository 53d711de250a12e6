package logger

import (
	"net/http"
	"net/url"
	"strings"
)

// Mask replaces redacted values in log output.
const Mask = "***"

// sensitiveKeys are matched as case-insensitive substrings against field
// and header names. "token" covers access_token, refresh_token and the
// X-Amz-Security-Token family; "authorization" covers the proxy variant.
var sensitiveKeys = []string{
	"authorization",
	"cookie",
	"password",
	"passwd",
	"pwd",
	"secret",
	"token",
	"api-key",
	"api_key",
	"apikey",
	"session",
	"credential",
	"signature",
}

// Redactor scrubs credentials from log fields before they are written.
// URL-shaped values are redacted structurally so the host and path stay
// readable while userinfo passwords and sensitive query values are masked.
type Redactor struct {
	keys []string
}

// NewRedactor returns a redactor covering the default credential key set
// plus any extra field names the caller treats as sensitive.
func NewRedactor(extra ...string) *Redactor {
	keys := make([]string, 0, len(sensitiveKeys)+len(extra))
	keys = append(keys, sensitiveKeys...)
	for _, k := range extra {
		keys = append(keys, strings.ToLower(k))
	}
	return &Redactor{keys: keys}
}

// Sensitive reports whether a field or header name looks credential-bearing.
func (r *Redactor) Sensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, key := range r.keys {
		if strings.Contains(lower, key) {
			return true
		}
	}
	return false
}

// Value redacts a string field. Values under sensitive keys are masked
// outright; URL values are scrubbed structurally regardless of key, since
// request URLs are this tool's most-logged value.
func (r *Redactor) Value(key, value string) string {
	if isHTTPURL(value) {
		return r.URL(value)
	}
	if value != "" && r.Sensitive(key) {
		return Mask
	}
	return value
}

// URL scrubs credentials from a URL while preserving its structure:
// a userinfo password becomes the mask, as does the value of any sensitive
// query parameter. Clean URLs are returned byte-for-byte unchanged, and a
// URL that does not parse is masked whole since it cannot be inspected.
func (r *Redactor) URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return Mask
	}
	changed := false
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), Mask)
			changed = true
		}
	}
	if q, redacted := r.redactQuery(u.RawQuery); redacted {
		u.RawQuery = q
		changed = true
	}
	if !changed {
		return raw
	}
	return u.String()
}

// redactQuery walks the raw query string pair by pair, preserving parameter
// order and the original escaping of untouched pairs.
func (r *Redactor) redactQuery(rawQuery string) (string, bool) {
	if rawQuery == "" {
		return rawQuery, false
	}
	pairs := strings.Split(rawQuery, "&")
	changed := false
	for i, pair := range pairs {
		key, _, hasValue := strings.Cut(pair, "=")
		if !hasValue {
			continue
		}
		name := key
		if decoded, err := url.QueryUnescape(key); err == nil {
			name = decoded
		}
		if r.Sensitive(name) {
			pairs[i] = key + "=" + Mask
			changed = true
		}
	}
	if !changed {
		return rawQuery, false
	}
	return strings.Join(pairs, "&"), true
}

// Fields redacts a field map for contextual logging. Header maps and nested
// field maps are handled; other values pass through unless their key is
// sensitive.
func (r *Redactor) Fields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = r.fieldValue(key, value)
	}
	return out
}

func (r *Redactor) fieldValue(key string, value any) any {
	switch v := value.(type) {
	case string:
		return r.Value(key, v)
	case http.Header:
		return r.headerValues(v)
	case map[string][]string:
		return r.headerValues(v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for name, val := range v {
			out[name] = r.Value(name, val)
		}
		return out
	case map[string]any:
		return r.Fields(v)
	default:
		if r.Sensitive(key) {
			return Mask
		}
		return value
	}
}

// headerValues masks every value of a sensitive header, keeping the value
// count so repeated headers remain visible as repeated.
func (r *Redactor) headerValues(h map[string][]string) map[string][]string {
	out := make(map[string][]string, len(h))
	for name, values := range h {
		if !r.Sensitive(name) {
			out[name] = values
			continue
		}
		masked := make([]string, len(values))
		for i := range masked {
			masked[i] = Mask
		}
		out[name] = masked
	}
	return out
}

func isHTTPURL(value string) bool {
	return strings.HasPrefix(value, "http://") ||
		strings.HasPrefix(value, "https://")
}
