package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// DefaultCredential is assigned to customers created without an explicit
// credential. The credential model is plaintext and not security grade.
const DefaultCredential = "0000"

// Customer is one record in the customer store. Name is the unique key,
// compared case-insensitively. Extras holds the open-ended business fields
// (email, telefono, direccion, ...) that are flattened into the same JSON
// object as the required fields.
type Customer struct {
	Name       string
	Credential string
	Extras     map[string]string
}

// NormalizeName returns the form of a customer name used for uniqueness and
// lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SetExtra sets one auxiliary field, allocating the bag on first use.
func (c *Customer) SetExtra(key, value string) {
	if c.Extras == nil {
		c.Extras = make(map[string]string)
	}
	c.Extras[key] = value
}

// Extra returns an auxiliary field value, "" when unset.
func (c Customer) Extra(key string) string {
	return c.Extras[key]
}

// MarshalJSON flattens the extras bag next to the required fields so the
// persisted object keeps the documented shape: {"nombre": ..., "password":
// ..., "email": ...}. Extra keys are emitted in sorted order for stable
// output.
func (c Customer) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')

	writeField := func(key string, value string, first bool) error {
		if !first {
			b.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
		return nil
	}

	if err := writeField("nombre", c.Name, true); err != nil {
		return nil, err
	}
	if err := writeField("password", c.Credential, false); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(c.Extras))
	for k := range c.Extras {
		if k == "nombre" || k == "password" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeField(k, c.Extras[k], false); err != nil {
			return nil, err
		}
	}

	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON splits the flat customer object back into the required
// fields and the extras bag. Non-string extra values are kept as their
// default string rendering.
func (c *Customer) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Extras = nil
	for key, value := range raw {
		str, ok := value.(string)
		if !ok {
			if value == nil {
				str = ""
			} else {
				str = fmt.Sprintf("%v", value)
			}
		}
		switch key {
		case "nombre":
			c.Name = str
		case "password":
			c.Credential = str
		default:
			c.SetExtra(key, str)
		}
	}

	if c.Name == "" {
		return fmt.Errorf("customer record is missing the 'nombre' field")
	}
	if c.Credential == "" {
		c.Credential = DefaultCredential
	}
	return nil
}
