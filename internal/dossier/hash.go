package dossier

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// ContentHash digests the dossier body. Two contents that are semantically
// identical must hash identically regardless of how they were assembled, so
// every object is re-serialized with sorted keys before hashing. Numbers go
// through json.Number to keep their source formatting stable.
func ContentHash(c Content) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	names := make([]Section, len(AllSections))
	copy(names, AllSections)
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	first := true
	for _, name := range names {
		raw := c.Section(name)
		if len(raw) == 0 {
			continue
		}
		value, err := decodeSection(raw)
		if err != nil {
			return "", fmt.Errorf("canonicalize section %s: %w", name, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeJSONString(&buf, string(name))
		buf.WriteByte(':')
		if err := writeCanonical(&buf, value); err != nil {
			return "", fmt.Errorf("canonicalize section %s: %w", name, err)
		}
	}
	buf.WriteByte('}')

	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

func decodeSection(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

func writeCanonical(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonical(buf, v[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case json.Number:
		buf.WriteString(v.String())
	case string:
		writeJSONString(buf, v)
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	encoded, _ := json.Marshal(s)
	buf.Write(encoded)
}
