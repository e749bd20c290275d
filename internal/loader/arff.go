package loader

import (
	"bufio"
	"strings"

	"github.com/drakos74/free-learn/internal/model"
)

const (
	relationTag  = "@relation"
	attributeTag = "@attribute"
	dataTag      = "@data"
	commentMark  = "%"
)

// parseARFF reads the declared schema and the data section.
// Attribute kinds are taken verbatim from the header.
func parseARFF(scanner *bufio.Scanner) (*model.Dataset, error) {
	ds := model.NewDataset("")
	line := 0
	inData := false
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, commentMark) {
			continue
		}
		if !inData {
			keyword := strings.ToLower(firstToken(text))
			switch keyword {
			case relationTag:
				name, _, _ := nextToken(strings.TrimSpace(text[len(relationTag):]))
				ds.Relation = name
			case attributeTag:
				attribute, err := parseAttribute(strings.TrimSpace(text[len(attributeTag):]))
				if err != nil {
					return nil, model.FormatErrorFrom(err, "invalid attribute on line %d", line)
				}
				ds.Attributes = append(ds.Attributes, attribute)
			case dataTag:
				inData = true
			default:
				return nil, model.FormatError("unexpected declaration on line %d: '%s'", line, text)
			}
			continue
		}
		instance, err := parseRow(ds.Attributes, text, line)
		if err != nil {
			return nil, err
		}
		ds.Append(instance)
	}
	if err := scanner.Err(); err != nil {
		return nil, model.FormatErrorFrom(err, "could not read arff stream")
	}
	if !inData {
		return nil, model.FormatError("no %s section found", dataTag)
	}
	if len(ds.Attributes) == 0 {
		return nil, model.FormatError("no attributes declared")
	}
	return ds, nil
}

func parseAttribute(decl string) (model.Attribute, error) {
	name, rest, err := nextToken(decl)
	if err != nil {
		return model.Attribute{}, err
	}
	if name == "" {
		return model.Attribute{}, model.FormatError("missing attribute name")
	}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndex(rest, "}")
		if end < 0 {
			return model.Attribute{}, model.FormatError("unterminated value set for '%s'", name)
		}
		values, err := splitValues(rest[1:end])
		if err != nil {
			return model.Attribute{}, err
		}
		if len(values) == 0 {
			return model.Attribute{}, model.FormatError("empty value set for '%s'", name)
		}
		return model.NewNominal(name, values...), nil
	}
	switch strings.ToLower(firstToken(rest)) {
	case "numeric", "real", "integer":
		return model.NewNumeric(name), nil
	case "string":
		return model.NewText(name), nil
	}
	return model.Attribute{}, model.FormatError("unsupported type '%s' for '%s'", rest, name)
}

func parseRow(attributes []model.Attribute, text string, line int) (model.Instance, error) {
	if strings.HasPrefix(text, "{") {
		return nil, model.FormatError("sparse instance on line %d is not supported", line)
	}
	values, err := splitValues(text)
	if err != nil {
		return nil, model.FormatErrorFrom(err, "invalid data on line %d", line)
	}
	if len(values) != len(attributes) {
		return nil, model.FormatError("inconsistent arff format: line %d has %d values, expected %d",
			line, len(values), len(attributes))
	}
	instance := make(model.Instance, len(values))
	for j, v := range values {
		a := attributes[j]
		switch a.Kind {
		case model.Numeric:
			f, ok := parseNumber(v)
			if !ok {
				return nil, model.FormatError("line %d: value '%s' of '%s' is not numeric", line, v, a.Name)
			}
			instance[j] = model.Num(f)
		case model.Nominal:
			if a.IndexOf(v) < 0 {
				return nil, model.FormatError("line %d: value '%s' not declared for '%s'", line, v, a.Name)
			}
			instance[j] = model.Str(v)
		default:
			instance[j] = model.Str(v)
		}
	}
	return instance, nil
}

// splitValues splits a comma separated list, honouring quotes.
func splitValues(s string) ([]string, error) {
	values := make([]string, 0)
	rest := strings.TrimSpace(s)
	for rest != "" {
		value, tail, err := nextToken(rest)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
		tail = strings.TrimSpace(tail)
		if tail == "" {
			break
		}
		if tail[0] != ',' {
			return nil, model.FormatError("expected ',' before '%s'", tail)
		}
		rest = strings.TrimSpace(tail[1:])
		if rest == "" {
			return nil, model.FormatError("trailing ','")
		}
	}
	return values, nil
}

// nextToken reads one, possibly quoted, token.
// Unquoted tokens end at white space, ',' or '{'.
func nextToken(s string) (token, rest string, err error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", nil
	}
	if q := s[0]; q == '\'' || q == '"' {
		b := new(strings.Builder)
		for i := 1; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				b.WriteByte(s[i])
			case c == q:
				return b.String(), s[i+1:], nil
			default:
				b.WriteByte(c)
			}
		}
		return "", "", model.FormatError("unterminated quote in '%s'", s)
	}
	end := strings.IndexAny(s, " \t,{")
	if end < 0 {
		return s, "", nil
	}
	return s[:end], s[end:], nil
}

func firstToken(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}
