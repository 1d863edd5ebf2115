// Package document defines models.json, the file consumed by downstream
// model routers, and knows how to encode, write and diff it.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Provider names used as keys in the providers object.
const (
	Groq   = "groq"
	Gemini = "gemini"
)

// Version is either a schema number or the literal "fallback".
type Version struct {
	number   int
	fallback bool
}

// Numbered returns a numeric version.
func Numbered(n int) Version { return Version{number: n} }

// FallbackVersion marks a document written by the safety net.
var FallbackVersion = Version{fallback: true}

// IsFallback reports whether v is the "fallback" marker.
func (v Version) IsFallback() bool { return v.fallback }

// Number returns the numeric version, or 0 for the fallback marker.
func (v Version) Number() int { return v.number }

func (v Version) String() string {
	if v.fallback {
		return "fallback"
	}
	return strconv.Itoa(v.number)
}

// MarshalJSON writes a JSON number, or the string "fallback".
func (v Version) MarshalJSON() ([]byte, error) {
	if v.fallback {
		return []byte(`"fallback"`), nil
	}
	return []byte(strconv.Itoa(v.number)), nil
}

// UnmarshalJSON accepts a JSON number or the string "fallback".
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "fallback" {
			return fmt.Errorf("document: unknown version %q", s)
		}
		*v = FallbackVersion
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("document: version: %w", err)
	}
	*v = Numbered(n)

	return nil
}

// DenySet is a set of model ids that must never be preferred. It is encoded
// as a sorted list.
type DenySet map[string]struct{}

// NewDenySet returns a set holding ids.
func NewDenySet(ids ...string) DenySet {
	s := make(DenySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is denied.
func (s DenySet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in lexicographic order. It never returns nil.
func (s DenySet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MarshalJSON writes the set as a sorted array.
func (s DenySet) MarshalJSON() ([]byte, error) {
	return marshalNoEscape(s.Sorted())
}

// UnmarshalJSON reads a list of ids.
func (s *DenySet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("document: deny: %w", err)
	}
	*s = NewDenySet(ids...)
	return nil
}

// UnmarshalYAML reads a sequence of ids.
func (s *DenySet) UnmarshalYAML(value *yaml.Node) error {
	var ids []string
	if err := value.Decode(&ids); err != nil {
		return fmt.Errorf("document: deny: %w", err)
	}
	*s = NewDenySet(ids...)
	return nil
}

// ProviderConfig is what a downstream consumer needs to pick a model of one
// provider.
type ProviderConfig struct {
	Prefer             []string `json:"prefer"`
	Deny               DenySet  `json:"deny"`
	DefaultTemperature float64  `json:"default_temperature"`
}

// ProviderEntry pairs a provider name with its configuration.
type ProviderEntry struct {
	Name   string
	Config ProviderConfig
}

// Providers is an insertion-ordered mapping of provider name to
// configuration. It encodes as a JSON object whose keys keep that order.
type Providers []ProviderEntry

// Get returns the configuration stored under name.
func (p Providers) Get(name string) (ProviderConfig, bool) {
	for _, e := range p {
		if e.Name == name {
			return e.Config, true
		}
	}
	return ProviderConfig{}, false
}

// MarshalJSON writes the entries as an object in insertion order.
func (p Providers) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := marshalNoEscape(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(e.Config)
		if err != nil {
			return nil, fmt.Errorf("document: provider %q: %w", e.Name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping the order of its keys.
func (p *Providers) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("document: providers: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("document: providers: expected object")
	}

	var out Providers
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("document: providers: %w", err)
		}
		name, _ := tok.(string)

		var cfg ProviderConfig
		if err := dec.Decode(&cfg); err != nil {
			return fmt.Errorf("document: provider %q: %w", name, err)
		}
		out = append(out, ProviderEntry{Name: name, Config: cfg})
	}

	*p = out

	return nil
}

// ModelsDocument is the whole models.json file.
type ModelsDocument struct {
	Version        Version   `json:"version"`
	Providers      Providers `json:"providers"`
	RefreshSeconds int       `json:"refresh_seconds"`
}

// marshalNoEscape encodes v without HTML escaping and without the trailing
// newline json.Encoder adds.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
