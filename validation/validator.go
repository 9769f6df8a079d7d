// Package validation checks request bodies against the JSON Schemas in
// schemas/ before anything reaches a store.
//
// Only the first violated rule is reported, in the order the schema lists its
// fields. Rules that are not tied to a listed field (unknown properties, a
// body that is not an object) come last.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Error is a validation failure carrying a human-readable message.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%q %s", e.Field, e.Message)
}

type schema struct {
	compiled *jsonschema.Schema
	fields   []string
}

// Validator holds the compiled request schemas.
type Validator struct {
	user  schema
	login schema
	task  schema
}

// New compiles the embedded schemas. It fails only if a schema file is broken.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	compiler.Formats["email"] = isEmail
	compiler.Formats["due-date"] = isDueDate

	for _, name := range []string{"user.json", "login.json", "task.json"} {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	v := &Validator{}
	var err error
	if v.user, err = compile(compiler, "user.json", "name", "email", "password"); err != nil {
		return nil, err
	}
	if v.login, err = compile(compiler, "login.json", "email", "password"); err != nil {
		return nil, err
	}
	if v.task, err = compile(compiler, "task.json", "title", "description", "priority", "dueDate", "status"); err != nil {
		return nil, err
	}
	return v, nil
}

func compile(c *jsonschema.Compiler, name string, fields ...string) (schema, error) {
	s, err := c.Compile(name)
	if err != nil {
		return schema{}, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return schema{compiled: s, fields: fields}, nil
}

// ValidateUser checks a registration body: name, email and password.
func (v *Validator) ValidateUser(body []byte) error {
	return v.user.validate(body)
}

// ValidateLogin checks a login body: email and password.
func (v *Validator) ValidateLogin(body []byte) error {
	return v.login.validate(body)
}

// ValidateTask checks a task body used for both create and full update.
func (v *Validator) ValidateTask(body []byte) error {
	return v.task.validate(body)
}

func (s schema) validate(body []byte) error {
	var doc interface{} = map[string]interface{}{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil {
			return &Error{Message: "request body must be valid JSON"}
		}
	}

	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &Error{Message: err.Error()}
	}
	return s.first(ve)
}

var quotedName = regexp.MustCompile(`'([^']*)'`)

// first picks the leaf cause whose field comes earliest in s.fields.
func (s schema) first(ve *jsonschema.ValidationError) error {
	var leaves []*jsonschema.ValidationError
	collectLeaves(ve, &leaves)
	if len(leaves) == 0 {
		return &Error{Message: ve.Message}
	}

	errs := make([]*Error, 0, len(leaves))
	for _, leaf := range leaves {
		errs = append(errs, s.toError(leaf))
	}
	sort.SliceStable(errs, func(i, j int) bool {
		ri, rj := s.rank(errs[i].Field), s.rank(errs[j].Field)
		if ri != rj {
			return ri < rj
		}
		return errs[i].Message < errs[j].Message
	})
	return errs[0]
}

func (s schema) toError(leaf *jsonschema.ValidationError) *Error {
	if field := strings.TrimPrefix(leaf.InstanceLocation, "/"); field != "" {
		return &Error{Field: strings.ReplaceAll(field, "/", "."), Message: leaf.Message}
	}

	// A missing property is reported on the object itself.
	if strings.HasSuffix(leaf.KeywordLocation, "/required") {
		missing := ""
		for _, m := range quotedName.FindAllStringSubmatch(leaf.Message, -1) {
			if missing == "" || s.rank(m[1]) < s.rank(missing) {
				missing = m[1]
			}
		}
		if missing != "" {
			return &Error{Field: missing, Message: "is required"}
		}
	}
	return &Error{Message: leaf.Message}
}

func (s schema) rank(field string) int {
	if field == "" {
		return len(s.fields)
	}
	name, _, _ := strings.Cut(field, ".")
	for i, f := range s.fields {
		if f == name {
			return i
		}
	}
	return len(s.fields)
}

func collectLeaves(ve *jsonschema.ValidationError, out *[]*jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, ve)
		return
	}
	for _, c := range ve.Causes {
		collectLeaves(c, out)
	}
}

// isEmail tightens the stock email format: the domain must contain a dot,
// so "a@x" is rejected.
func isEmail(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	if !jsonschema.Formats["email"](s) {
		return false
	}
	domain := s[strings.LastIndexByte(s, '@')+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

func isDueDate(v interface{}) bool {
	switch v.(type) {
	case string, float64, json.Number:
		_, err := ParseDate(v)
		return err == nil
	}
	return true
}

// ParseDate reads a dueDate accepted by the task schema: an RFC 3339
// timestamp (either letter case), a bare YYYY-MM-DD date taken as midnight
// UTC, or a number of milliseconds since the Unix epoch.
func ParseDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339Nano, strings.ToUpper(d)); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, d)
	case float64:
		if d != math.Trunc(d) {
			return time.Time{}, fmt.Errorf("date %v is not a whole number of milliseconds", d)
		}
		return time.UnixMilli(int64(d)).UTC(), nil
	case json.Number:
		ms, err := d.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("date %s: %w", d, err)
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported date value %v", v)
}
