package builtin

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Func is a callable bound to a function name. Positional arguments and
// keyword arguments arrive already evaluated.
type Func func(args []any, kwargs map[string]any) (any, error)

// Registry is the built-in function table. Hosts may register additional
// functions; registered names shadow the defaults.
type Registry struct {
	funcs map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{
		funcs: make(map[string]Func),
	}
	r.registerDefaults()
	return r
}

func (r *Registry) registerDefaults() {
	r.funcs["now"] = funcNow
	r.funcs["timestamp"] = funcTimestamp
	r.funcs["timestamp_ms"] = funcTimestampMs
	r.funcs["uuid"] = funcUUID
	r.funcs["random"] = funcRandom
	r.funcs["random_string"] = funcRandomString
	r.funcs["base64"] = funcBase64
	r.funcs["base64_decode"] = funcBase64Decode
	r.funcs["md5"] = funcMD5
	r.funcs["sha256"] = funcSHA256
	r.funcs["url_encode"] = funcURLEncode
	r.funcs["url_decode"] = funcURLDecode
	r.funcs["date"] = funcDate
	r.funcs["env"] = funcEnv
	r.funcs["jsonpath"] = funcJSONPath
}

func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup returns the function bound to name, if any.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

func argString(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	return toString(args[i]), true
}

func argInt(args []any, i, fallback int) (int, error) {
	if i >= len(args) {
		return fallback, nil
	}
	switch v := args[i].(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("argument %q is not an integer", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("argument %v is not an integer", args[i])
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func funcNow(_ []any, _ map[string]any) (any, error) {
	return time.Now().UTC().Format(time.RFC3339), nil
}

func funcTimestamp(_ []any, _ map[string]any) (any, error) {
	return time.Now().Unix(), nil
}

func funcTimestampMs(_ []any, _ map[string]any) (any, error) {
	return time.Now().UnixMilli(), nil
}

func funcUUID(_ []any, _ map[string]any) (any, error) {
	return uuid.New().String(), nil
}

func funcRandom(args []any, _ map[string]any) (any, error) {
	min, err := argInt(args, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("random(): %w", err)
	}
	max, err := argInt(args, 1, 100)
	if err != nil {
		return nil, fmt.Errorf("random(): %w", err)
	}
	if max < min {
		return nil, fmt.Errorf("random(): max %d is below min %d", max, min)
	}
	return rand.Intn(max-min+1) + min, nil
}

func funcRandomString(args []any, _ map[string]any) (any, error) {
	length, err := argInt(args, 0, 16)
	if err != nil {
		return nil, fmt.Errorf("random_string(): %w", err)
	}
	return randomString(length, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"), nil
}

func funcBase64(args []any, _ map[string]any) (any, error) {
	s, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("base64(): missing argument")
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

func funcBase64Decode(args []any, _ map[string]any) (any, error) {
	s, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("base64_decode(): missing argument")
	}
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("base64_decode(): %w", err)
	}
	return string(decoded), nil
}

func funcMD5(args []any, _ map[string]any) (any, error) {
	s, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("md5(): missing argument")
	}
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:]), nil
}

func funcSHA256(args []any, _ map[string]any) (any, error) {
	s, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("sha256(): missing argument")
	}
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:]), nil
}

func funcURLEncode(args []any, _ map[string]any) (any, error) {
	s, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("url_encode(): missing argument")
	}
	return url.QueryEscape(s), nil
}

func funcURLDecode(args []any, _ map[string]any) (any, error) {
	s, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("url_decode(): missing argument")
	}
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return nil, fmt.Errorf("url_decode(): %w", err)
	}
	return decoded, nil
}

func funcDate(args []any, _ map[string]any) (any, error) {
	format := "2006-01-02"
	if s, ok := argString(args, 0); ok {
		format = s
	}
	return time.Now().UTC().Format(format), nil
}

func funcEnv(args []any, _ map[string]any) (any, error) {
	name, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("env(): missing argument")
	}
	return os.Getenv(name), nil
}

// funcJSONPath queries a JSON document with a gjson path, e.g.
// jsonpath($response, user.id).
func funcJSONPath(args []any, _ map[string]any) (any, error) {
	doc, ok := argString(args, 0)
	if !ok {
		return nil, fmt.Errorf("jsonpath(): missing document argument")
	}
	path, ok := argString(args, 1)
	if !ok {
		return nil, fmt.Errorf("jsonpath(): missing path argument")
	}
	result := gjson.Get(doc, path)
	if !result.Exists() {
		return nil, fmt.Errorf("jsonpath(): path %q not found", path)
	}
	return result.Value(), nil
}

func randomString(length int, charset string) string {
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
